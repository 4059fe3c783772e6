package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
	"github.com/ignatzorin/sinistros-backend/internal/validation"
)

// LegacyDeadline срок обработки записи старого потока.
const LegacyDeadline = 30 * day

const originSystem = "sistema"

// LegacyService обслуживает записи /api/sinistros и их хронологию (andamentos).
type LegacyService struct {
	store repository.LegacyStore
	now   func() time.Time
}

// NewLegacyService создаёт сервис старого потока.
func NewLegacyService(store repository.LegacyStore) *LegacyService {
	return &LegacyService{store: store, now: time.Now}
}

func (s *LegacyService) ListSinistros(ctx context.Context, filter models.SinistroFilter) ([]models.Sinistro, int, error) {
	items, total, err := s.store.ListSinistros(ctx, filter)
	if err != nil {
		return nil, 0, mapStoreError(err, nil)
	}
	return items, total, nil
}

func (s *LegacyService) GetSinistro(ctx context.Context, id uuid.UUID) (*models.Sinistro, error) {
	sin, err := s.store.GetSinistro(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, apperror.ErrSinistroNotFound)
	}
	return sin, nil
}

// CreateSinistro регистрирует запись в статусе aberto со сроком +30 дней.
func (s *LegacyService) CreateSinistro(ctx context.Context, req dto.CreateSinistroRequest) (*models.Sinistro, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	noticeDate := now
	if req.NoticeDate != nil && *req.NoticeDate != "" {
		parsed, err := dto.ParseDate(*req.NoticeDate)
		if err != nil {
			return nil, err
		}
		noticeDate = parsed
	}

	sin := &models.Sinistro{
		ID:           uuid.New(),
		InsuredName:  validation.SanitizeString(req.InsuredName),
		InsuredEmail: strings.ToLower(strings.TrimSpace(req.InsuredEmail)),
		InsuredPhone: strings.TrimSpace(req.InsuredPhone),
		Plate:        validation.NormalizePlate(req.Plate),
		InsurerName:  validation.SanitizeString(req.InsurerName),
		Type:         strings.TrimSpace(req.Type),
		Status:       valueobject.SinistroStatusOpen,
		NoticeDate:   noticeDate,
		Deadline:     noticeDate.Add(LegacyDeadline),
		Summary:      req.Summary,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateSinistro(ctx, sin); err != nil {
		return nil, mapStoreError(err, nil)
	}

	s.andamento(ctx, sin.ID, models.AndamentoCreated, "Sinistro registrado")
	return sin, nil
}

// UpdateStatus меняет статус записи и добавляет andamento.
func (s *LegacyService) UpdateStatus(ctx context.Context, id uuid.UUID, req dto.UpdateSinistroStatusRequest) (*models.Sinistro, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	status := valueobject.SinistroStatus(req.Status)
	if err := s.store.UpdateSinistroStatus(ctx, id, status); err != nil {
		return nil, mapStoreError(err, apperror.ErrSinistroNotFound)
	}

	s.andamento(ctx, id, models.AndamentoStatusChanged, fmt.Sprintf("Status alterado para %s", status))
	return s.GetSinistro(ctx, id)
}

// UpdateProtocol сохраняет протокол; статус становится enviado.
func (s *LegacyService) UpdateProtocol(ctx context.Context, id uuid.UUID, req dto.UpdateProtocolRequest) (*models.Sinistro, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	protocol := strings.TrimSpace(req.Protocol)
	if err := s.store.UpdateSinistroProtocol(ctx, id, protocol); err != nil {
		return nil, mapStoreError(err, apperror.ErrSinistroNotFound)
	}

	s.andamento(ctx, id, models.AndamentoProtocol, fmt.Sprintf("Protocolo %s gerado", protocol))
	return s.GetSinistro(ctx, id)
}

// SendNotice формирует протокол PROT-<unix ms> для уведомления страховщика.
func (s *LegacyService) SendNotice(ctx context.Context, req dto.SendNoticeRequest) (*dto.NoticeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	protocol := fmt.Sprintf("PROT-%d", s.now().UnixMilli())
	if _, err := s.UpdateProtocol(ctx, req.SinistroID, dto.UpdateProtocolRequest{Protocol: protocol}); err != nil {
		return nil, err
	}
	return &dto.NoticeResponse{Protocol: protocol, Message: "Aviso enviado com sucesso"}, nil
}

func (s *LegacyService) ListDocumentos(ctx context.Context, sinistroID uuid.UUID) ([]models.Documento, error) {
	docs, err := s.store.ListDocumentos(ctx, sinistroID)
	return docs, mapStoreError(err, nil)
}

func (s *LegacyService) CreateDocumento(ctx context.Context, req dto.CreateDocumentoRequest) (*models.Documento, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	doc := &models.Documento{
		ID:            uuid.New(),
		SinistroID:    req.SinistroID,
		Kind:          strings.TrimSpace(req.Kind),
		FileName:      strings.TrimSpace(req.FileName),
		MimeType:      strings.TrimSpace(req.MimeType),
		ContentBase64: req.ContentBase64,
		ReceivedAt:    s.now().UTC(),
	}
	if err := s.store.CreateDocumento(ctx, doc); err != nil {
		return nil, mapStoreError(err, apperror.ErrSinistroNotFound)
	}

	s.andamento(ctx, req.SinistroID, models.AndamentoDocumentAdded, fmt.Sprintf("Documento %s anexado", doc.FileName))
	return doc, nil
}

func (s *LegacyService) ListPendencias(ctx context.Context, sinistroID uuid.UUID) ([]models.Pendencia, error) {
	items, err := s.store.ListPendencias(ctx, sinistroID)
	return items, mapStoreError(err, nil)
}

func (s *LegacyService) CreatePendencia(ctx context.Context, req dto.CreatePendenciaRequest) (*models.Pendencia, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p := &models.Pendencia{
		ID:          uuid.New(),
		SinistroID:  req.SinistroID,
		Description: validation.SanitizeString(req.Description),
		RequestedBy: strings.TrimSpace(req.RequestedBy),
		Status:      models.PendenciaStatusOpen,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreatePendencia(ctx, p); err != nil {
		return nil, mapStoreError(err, apperror.ErrSinistroNotFound)
	}

	s.andamento(ctx, req.SinistroID, models.AndamentoPendenciaOpened, p.Description)
	return p, nil
}

func (s *LegacyService) ListAndamentos(ctx context.Context, sinistroID uuid.UUID) ([]models.Andamento, error) {
	items, err := s.store.ListAndamentos(ctx, sinistroID)
	return items, mapStoreError(err, nil)
}

func (s *LegacyService) CreateAndamento(ctx context.Context, req dto.CreateAndamentoRequest) (*models.Andamento, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	origin := strings.TrimSpace(req.Origin)
	if origin == "" {
		origin = "usuario"
	}
	a := &models.Andamento{
		ID:          uuid.New(),
		SinistroID:  req.SinistroID,
		EventType:   strings.TrimSpace(req.EventType),
		Description: req.Description,
		Origin:      origin,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateAndamento(ctx, a); err != nil {
		return nil, mapStoreError(err, apperror.ErrSinistroNotFound)
	}
	return a, nil
}

// andamento добавляет автоматическую запись хронологии.
func (s *LegacyService) andamento(ctx context.Context, sinistroID uuid.UUID, eventType, description string) {
	a := &models.Andamento{
		ID:          uuid.New(),
		SinistroID:  sinistroID,
		EventType:   eventType,
		Description: &description,
		Origin:      originSystem,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.CreateAndamento(ctx, a); err != nil {
		logger.WithComponent("legacy").WithError(err).WithField("sinistro_id", sinistroID).Error("не удалось записать andamento")
	}
}
