package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/sinistros-backend/internal/domain/lifecycle"
	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/goroutine"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/repository"
	"github.com/ignatzorin/sinistros-backend/internal/validation"
)

// Estimator оценивает ущерб по синистру.
type Estimator interface {
	Estimate(ctx context.Context, claim *models.Claim, files []models.File) (*models.EstimateDraft, error)
}

// TimelinePublisher доставляет записи журнала подписчикам хронологии.
type TimelinePublisher interface {
	Publish(claimID uuid.UUID, event string, data any) error
}

// PortalTokens выпускает и проверяет токены портала третьих лиц.
type PortalTokens interface {
	Mint(claimID uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
}

// Имена workflow в журнале событий.
const (
	WorkflowCreateClaim      = "sinistros_criar"
	WorkflowUploadFiles      = "arquivos_upload"
	WorkflowEstimate         = "estimativa_gerar"
	WorkflowAssignShop       = "oficinas_rotear_agendar"
	WorkflowSchedule         = "oficinas_agendar"
	WorkflowThirdPartyLink   = "terceiros_gerar_link"
	WorkflowThirdPartySubmit = "terceiros_submit"
	WorkflowUpdateStatus     = "status_atualizar"
	WorkflowClose            = "sinistro_concluir"
)

// TimelineEvent тип сообщения хронологии в WebSocket.
const TimelineEvent = "evento"

const shopsCacheTTL = 10 * time.Minute

// ClaimService содержит операции жизненного цикла синистра.
// Каждая изменяющая операция: проверка данных, проверка перехода, запись,
// запись в журнал событий и публикация в хронологию.
type ClaimService struct {
	store         repository.ClaimStore
	estimator     Estimator
	tokens        PortalTokens
	cache         *CacheService
	hub           TimelinePublisher
	portalBaseURL string
	now           func() time.Time
}

// NewClaimService создаёт сервис синистров.
func NewClaimService(store repository.ClaimStore, estimator Estimator, tokens PortalTokens, cache *CacheService, portalBaseURL string) *ClaimService {
	return &ClaimService{
		store:         store,
		estimator:     estimator,
		tokens:        tokens,
		cache:         cache,
		portalBaseURL: strings.TrimRight(portalBaseURL, "/"),
		now:           time.Now,
	}
}

// SetHub подключает хаб хронологии.
func (s *ClaimService) SetHub(hub TimelinePublisher) {
	s.hub = hub
}

// CreateClaim регистрирует новый синистр в статусе aberto.
func (s *ClaimService) CreateClaim(ctx context.Context, req dto.CreateClaimRequest) (*models.Claim, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	eventDate, err := dto.ParseDate(req.EventDate)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	claim := &models.Claim{
		ID:           uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
		Plate:        validation.NormalizePlate(req.Plate),
		InsuredTaxID: validation.Digits(req.InsuredTaxID),
		EventDate:    eventDate,
		EventCity:    validation.SanitizeString(req.EventCity),
		EventState:   strings.ToUpper(strings.TrimSpace(req.EventState)),
		Type:         valueobject.ClaimType(req.Type),
		Status:       valueobject.ClaimStatusOpen,
	}
	if req.Deductible != nil {
		money, err := valueobject.NewMoney(*req.Deductible, "")
		if err != nil {
			return nil, apperror.Validation("franquia_prevista inválida")
		}
		amount := money.Amount
		claim.Deductible = &amount
	}
	if req.Summary != nil && strings.TrimSpace(*req.Summary) != "" {
		summary := validation.SanitizeString(*req.Summary)
		claim.Summary = &summary
	}

	if err := s.store.CreateClaim(ctx, claim); err != nil {
		return nil, mapStoreError(err, nil)
	}

	s.record(ctx, claim.ID, WorkflowCreateClaim, map[string]any{
		"placa":         claim.Plate,
		"tipo_sinistro": claim.Type,
	})
	return claim, nil
}

// GetClaim возвращает синистр или NOT_FOUND.
func (s *ClaimService) GetClaim(ctx context.Context, id uuid.UUID) (*models.Claim, error) {
	claim, err := s.store.GetClaim(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, apperror.ErrClaimNotFound)
	}
	return claim, nil
}

// Facts собирает снимок синистра для таблицы переходов.
func (s *ClaimService) Facts(ctx context.Context, claim *models.Claim) (lifecycle.Facts, error) {
	schedule, err := s.store.GetSchedule(ctx, claim.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return lifecycle.Facts{}, mapStoreError(err, nil)
	}
	return claimFacts(claim, schedule), nil
}

func claimFacts(claim *models.Claim, schedule *models.Schedule) lifecycle.Facts {
	return lifecycle.Facts{
		Status:               claim.Status,
		HasEstimate:          claim.EstimateID != nil,
		TotalLossProbability: claim.TotalLossProbability,
		HasShop:              claim.ShopID != nil,
		HasActiveSchedule:    schedule != nil && schedule.Status.IsActive(),
	}
}

// guard загружает синистр и проверяет, что действие допустимо.
func (s *ClaimService) guard(ctx context.Context, claimID uuid.UUID, action lifecycle.Action, adjust func(*lifecycle.Facts)) (*models.Claim, valueobject.ClaimStatus, error) {
	claim, err := s.GetClaim(ctx, claimID)
	if err != nil {
		return nil, "", err
	}
	facts, err := s.Facts(ctx, claim)
	if err != nil {
		return nil, "", err
	}
	if adjust != nil {
		adjust(&facts)
	}
	next, err := lifecycle.Check(facts, action)
	if err != nil {
		return nil, "", err
	}
	return claim, next, nil
}

// RegisterFiles сохраняет метаданные загруженных артефактов.
func (s *ClaimService) RegisterFiles(ctx context.Context, req dto.UploadFilesRequest) ([]models.File, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	claim, _, err := s.guard(ctx, req.ClaimID, lifecycle.ActionUploadFiles, nil)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	files := make([]models.File, 0, len(req.Files))
	kinds := make([]string, 0, len(req.Files))
	for _, upload := range req.Files {
		metadata, err := models.NewJSONB(models.FileMetadata{
			OriginalName: upload.OriginalName,
			MimeType:     upload.MimeType,
			Size:         upload.Size,
		})
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "erro interno")
		}
		file := models.File{
			ID:        uuid.New(),
			ClaimID:   claim.ID,
			CreatedAt: now,
			Source:    valueobject.FileSource(req.Source),
			Kind:      valueobject.FileKind(upload.Kind),
			URL:       upload.URL,
			Metadata:  metadata,
		}
		if err := s.store.CreateFile(ctx, &file); err != nil {
			return nil, mapStoreError(err, nil)
		}
		files = append(files, file)
		kinds = append(kinds, upload.Kind)
	}

	s.record(ctx, claim.ID, WorkflowUploadFiles, map[string]any{
		"contagem": len(files),
		"tipos":    kinds,
		"fonte":    req.Source,
	})
	return files, nil
}

// GenerateEstimate вызывает оценщик и сохраняет оценку, переводя синистр в estimado.
func (s *ClaimService) GenerateEstimate(ctx context.Context, claimID uuid.UUID) (*models.Estimate, *models.Claim, error) {
	claim, next, err := s.guard(ctx, claimID, lifecycle.ActionGenerateEstimate, nil)
	if err != nil {
		return nil, nil, err
	}

	files, err := s.store.ListFiles(ctx, claim.ID)
	if err != nil {
		return nil, nil, mapStoreError(err, nil)
	}

	draft, err := s.estimator.Estimate(ctx, claim, files)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeUpstream, "não foi possível gerar a estimativa")
	}
	prob, err := valueobject.NewProbability(draft.TotalLossProbability)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeUpstream, "estimativa inválida")
	}
	breakdown, err := models.NewJSONB(draft.Breakdown)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "erro interno")
	}

	estimate := &models.Estimate{
		ID:                   uuid.New(),
		ClaimID:              claim.ID,
		CreatedAt:            s.now().UTC(),
		EstimatedValue:       math.Round(draft.EstimatedValue*100) / 100,
		LaborHours:           draft.LaborHours,
		TotalLossProbability: float64(prob),
		Breakdown:            breakdown,
	}
	change := repository.StatusChange{From: claim.Status, To: next}
	if err := s.store.CreateEstimate(ctx, estimate, change); err != nil {
		return nil, nil, mapStoreError(err, apperror.ErrClaimNotFound)
	}

	p := estimate.TotalLossProbability
	claim.Status = next
	claim.EstimateID = &estimate.ID
	claim.TotalLossProbability = &p

	s.record(ctx, claim.ID, WorkflowEstimate, map[string]any{
		"valor_estimado": estimate.EstimatedValue,
		"prob_pt":        estimate.TotalLossProbability,
	})
	return estimate, claim, nil
}

// ListShops возвращает справочник мастерских в порядке рейтинга.
// Пустой uf означает все штаты.
func (s *ClaimService) ListShops(ctx context.Context, uf string) ([]models.RankedShop, error) {
	shops, err := s.shops(ctx)
	if err != nil {
		return nil, err
	}
	return RankShops(shops, uf), nil
}

func (s *ClaimService) shops(ctx context.Context) ([]models.Shop, error) {
	load := func() (interface{}, error) {
		return s.store.ListShops(ctx)
	}
	if s.cache == nil {
		shops, err := s.store.ListShops(ctx)
		return shops, mapStoreError(err, nil)
	}
	value, err := s.cache.GetOrSet(cacheKeyShops, shopsCacheTTL, load)
	if err != nil {
		return nil, mapStoreError(err, nil)
	}
	return value.([]models.Shop), nil
}

// MatchShops ранжирует мастерские штата синистра (или указанного uf).
func (s *ClaimService) MatchShops(ctx context.Context, claimID uuid.UUID, uf string) ([]models.RankedShop, error) {
	claim, err := s.GetClaim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if claim.Status.IsTerminal() {
		return nil, apperror.InvalidTransition("sinistro %s não aceita roteamento de oficina", claim.Status)
	}
	if uf == "" {
		uf = claim.EventState
	}
	return s.ListShops(ctx, uf)
}

// AssignShop создаёт ожидающую запись расписания с выбранной мастерской.
func (s *ClaimService) AssignShop(ctx context.Context, claimID, shopID uuid.UUID) (*models.Schedule, error) {
	claim, _, err := s.guard(ctx, claimID, lifecycle.ActionAssignShop, nil)
	if err != nil {
		return nil, err
	}
	shop, err := s.store.GetShop(ctx, shopID)
	if err != nil {
		return nil, mapStoreError(err, apperror.ErrShopNotFound)
	}

	schedule := &models.Schedule{
		ID:        uuid.New(),
		ClaimID:   claim.ID,
		ShopID:    shop.ID,
		Status:    valueobject.ScheduleStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateSchedule(ctx, schedule); err != nil {
		return nil, mapStoreError(err, nil)
	}

	s.record(ctx, claim.ID, WorkflowAssignShop, map[string]any{
		"oficina_id":   shop.ID,
		"oficina_nome": shop.Name,
	})
	return schedule, nil
}

// ConfirmSchedule подтверждает дату в мастерской. Если передана другая мастерская,
// активная запись заменяется новой.
func (s *ClaimService) ConfirmSchedule(ctx context.Context, claimID uuid.UUID, shopID *uuid.UUID, at time.Time) (*models.Schedule, error) {
	claim, _, err := s.guard(ctx, claimID, lifecycle.ActionConfirmSchedule, func(f *lifecycle.Facts) {
		if shopID != nil {
			f.HasShop = true
		}
	})
	if err != nil {
		return nil, err
	}

	current, err := s.store.GetSchedule(ctx, claim.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, mapStoreError(err, nil)
	}

	at = at.UTC()
	var schedule *models.Schedule
	if current != nil && current.Status.IsActive() && (shopID == nil || *shopID == current.ShopID) {
		if err := s.store.UpdateScheduleStatus(ctx, current.ID, valueobject.ScheduleStatusConfirmed, &at); err != nil {
			return nil, mapStoreError(err, nil)
		}
		current.Status = valueobject.ScheduleStatusConfirmed
		current.ScheduledAt = &at
		schedule = current
	} else {
		target := claim.ShopID
		if shopID != nil {
			target = shopID
		}
		if target == nil {
			return nil, apperror.InvalidTransition("nenhuma oficina atribuída ao sinistro")
		}
		if _, err := s.store.GetShop(ctx, *target); err != nil {
			return nil, mapStoreError(err, apperror.ErrShopNotFound)
		}
		schedule = &models.Schedule{
			ID:          uuid.New(),
			ClaimID:     claim.ID,
			ShopID:      *target,
			ScheduledAt: &at,
			Status:      valueobject.ScheduleStatusConfirmed,
			CreatedAt:   s.now().UTC(),
		}
		if err := s.store.CreateSchedule(ctx, schedule); err != nil {
			return nil, mapStoreError(err, nil)
		}
	}

	s.record(ctx, claim.ID, WorkflowSchedule, map[string]any{
		"oficina_id":    schedule.ShopID,
		"data_agendada": at.Format(time.RFC3339),
	})
	return schedule, nil
}

// AuthorizeRepair переводит синистр в autorizado_reparo.
func (s *ClaimService) AuthorizeRepair(ctx context.Context, claimID uuid.UUID) (*models.Claim, error) {
	return s.transition(ctx, claimID, lifecycle.ActionAuthorizeRepair, nil)
}

// MarkTotalLoss переводит синистр в perda_total. Достаточно наличия оценки;
// порог вероятности влияет только на список доступных действий.
func (s *ClaimService) MarkTotalLoss(ctx context.Context, claimID uuid.UUID) (*models.Claim, error) {
	return s.transition(ctx, claimID, lifecycle.ActionMarkTotalLoss, nil)
}

// Deny отклоняет синистр из любого незавершённого статуса.
func (s *ClaimService) Deny(ctx context.Context, claimID uuid.UUID, reason *string) (*models.Claim, error) {
	return s.transition(ctx, claimID, lifecycle.ActionDeny, reason)
}

func (s *ClaimService) transition(ctx context.Context, claimID uuid.UUID, action lifecycle.Action, reason *string) (*models.Claim, error) {
	claim, next, err := s.guard(ctx, claimID, action, nil)
	if err != nil {
		return nil, err
	}

	previous := claim.Status
	change := repository.StatusChange{From: previous, To: next}
	if err := s.store.UpdateClaimStatus(ctx, claim.ID, change, nil); err != nil {
		return nil, mapStoreError(err, apperror.ErrClaimNotFound)
	}
	claim.Status = next
	claim.UpdatedAt = s.now().UTC()

	if next == valueobject.ClaimStatusDenied {
		s.cancelActiveSchedule(ctx, claim.ID)
	}

	payload := map[string]any{
		"acao":            action,
		"status_anterior": previous,
		"status_novo":     next,
	}
	if reason != nil && strings.TrimSpace(*reason) != "" {
		payload["motivo"] = validation.SanitizeString(*reason)
	}
	s.record(ctx, claim.ID, WorkflowUpdateStatus, payload)
	return claim, nil
}

// cancelActiveSchedule отменяет незавершённую запись расписания синистра.
func (s *ClaimService) cancelActiveSchedule(ctx context.Context, claimID uuid.UUID) {
	schedule, err := s.store.GetSchedule(ctx, claimID)
	switch {
	case err == nil && schedule.Status.IsActive():
		if err := s.store.UpdateScheduleStatus(ctx, schedule.ID, valueobject.ScheduleStatusCancelled, nil); err != nil {
			logger.WithComponent("claims").WithError(err).WithField("claim_id", claimID).Error("не удалось отменить запись расписания")
		}
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		logger.WithComponent("claims").WithError(err).WithField("claim_id", claimID).Error("не удалось прочитать расписание")
	}
}

// Close завершает синистр: статус concluido, отметка encerrado_em,
// подтверждённая запись расписания становится concluido.
func (s *ClaimService) Close(ctx context.Context, claimID uuid.UUID) (*models.Claim, error) {
	claim, next, err := s.guard(ctx, claimID, lifecycle.ActionClose, nil)
	if err != nil {
		return nil, err
	}

	closedAt := s.now().UTC()
	change := repository.StatusChange{From: claim.Status, To: next}
	if err := s.store.UpdateClaimStatus(ctx, claim.ID, change, &closedAt); err != nil {
		return nil, mapStoreError(err, apperror.ErrClaimNotFound)
	}
	claim.Status = next
	claim.ClosedAt = &closedAt
	claim.UpdatedAt = closedAt

	schedule, err := s.store.GetSchedule(ctx, claim.ID)
	switch {
	case err == nil && schedule.Status == valueobject.ScheduleStatusConfirmed:
		if err := s.store.UpdateScheduleStatus(ctx, schedule.ID, valueobject.ScheduleStatusCompleted, nil); err != nil {
			logger.WithComponent("claims").WithError(err).WithField("claim_id", claim.ID).Error("не удалось завершить запись расписания")
		}
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		logger.WithComponent("claims").WithError(err).WithField("claim_id", claim.ID).Error("не удалось прочитать расписание")
	}

	s.record(ctx, claim.ID, WorkflowClose, map[string]any{
		"encerrado_em": closedAt.Format(time.RFC3339),
	})
	return claim, nil
}

// GenerateThirdPartyLink приглашает третье лицо и возвращает ссылку на портал.
func (s *ClaimService) GenerateThirdPartyLink(ctx context.Context, claimID uuid.UUID) (*models.ThirdParty, string, error) {
	claim, _, err := s.guard(ctx, claimID, lifecycle.ActionThirdPartyLink, nil)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Mint(claim.ID)
	if err != nil {
		return nil, "", apperror.Wrap(err, apperror.ErrCodeInternal, "erro interno")
	}

	tp := &models.ThirdParty{
		ID:        uuid.New(),
		ClaimID:   claim.ID,
		Token:     token,
		Status:    valueobject.ThirdPartyStatusInvited,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateThirdParty(ctx, tp); err != nil {
		return nil, "", mapStoreError(err, nil)
	}

	s.record(ctx, claim.ID, WorkflowThirdPartyLink, map[string]any{
		"terceiro_id": tp.ID,
	})
	return tp, s.PortalLink(token), nil
}

// PortalLink собирает ссылку на портал по токену.
func (s *ClaimService) PortalLink(token string) string {
	return s.portalBaseURL + "/" + token
}

// resolveToken проверяет подпись токена до обращения к хранилищу
// и убеждается, что запись принадлежит тому же синистру.
func (s *ClaimService) resolveToken(ctx context.Context, token string) (*models.ThirdParty, *models.Claim, error) {
	claimID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, nil, apperror.ErrThirdPartyNotFound
	}

	tp, err := s.store.GetThirdPartyByToken(ctx, token)
	if err != nil {
		return nil, nil, mapStoreError(err, apperror.ErrThirdPartyNotFound)
	}
	if tp.ClaimID != claimID {
		return nil, nil, apperror.ErrThirdPartyNotFound
	}

	claim, err := s.store.GetClaim(ctx, claimID)
	if err != nil {
		return nil, nil, mapStoreError(err, apperror.ErrThirdPartyNotFound)
	}
	return tp, claim, nil
}

// ResolvePortal возвращает данные, доступные третьему лицу по ссылке.
func (s *ClaimService) ResolvePortal(ctx context.Context, token string) (*models.PortalView, error) {
	tp, claim, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &models.PortalView{
		ThirdParty: *tp,
		ClaimInfo: models.PortalClaimInfo{
			Plate:      claim.Plate,
			EventDate:  claim.EventDate.UTC().Format(time.RFC3339),
			EventCity:  claim.EventCity,
			EventState: claim.EventState,
			Type:       claim.Type,
			Status:     claim.Status,
		},
	}, nil
}

// SubmitThirdPartyData сохраняет данные третьего лица, отправленные через портал.
func (s *ClaimService) SubmitThirdPartyData(ctx context.Context, token string, data models.ThirdPartyData) (*models.ThirdParty, error) {
	if err := dto.ValidateThirdPartyData(data); err != nil {
		return nil, err
	}
	tp, claim, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	facts, err := s.Facts(ctx, claim)
	if err != nil {
		return nil, err
	}
	if _, err := lifecycle.Check(facts, lifecycle.ActionThirdPartySubmit); err != nil {
		return nil, err
	}
	if tp.Status == valueobject.ThirdPartyStatusDataReceived {
		return nil, apperror.InvalidTransition("dados do terceiro já foram enviados")
	}

	name := validation.SanitizeString(data.Name)
	taxID := validation.Digits(data.TaxID)
	email := strings.ToLower(strings.TrimSpace(data.Email))
	phone := strings.TrimSpace(data.Phone)
	submittedAt := s.now().UTC()

	tp.Name = &name
	tp.TaxID = &taxID
	tp.Email = &email
	tp.Phone = &phone
	tp.Status = valueobject.ThirdPartyStatusDataReceived
	tp.SubmittedAt = &submittedAt

	if err := s.store.UpdateThirdParty(ctx, tp); err != nil {
		return nil, mapStoreError(err, apperror.ErrThirdPartyNotFound)
	}

	s.record(ctx, claim.ID, WorkflowThirdPartySubmit, map[string]any{
		"nome": name,
	})
	return tp, nil
}

// RegisterPortalFiles сохраняет файлы, загруженные третьим лицом.
func (s *ClaimService) RegisterPortalFiles(ctx context.Context, token string, uploads []dto.FileUpload) ([]models.File, error) {
	_, claim, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.RegisterFiles(ctx, dto.UploadFilesRequest{
		ClaimID: claim.ID,
		Source:  string(valueobject.FileSourceThirdParty),
		Files:   uploads,
	})
}

// RecordEvent добавляет запись в журнал событий и публикует её в хронологию.
// claimID может быть nil для действий без синистра (отчёты, списки).
func (s *ClaimService) RecordEvent(ctx context.Context, claimID *uuid.UUID, workflow string, payload any, status valueobject.EventStatus) error {
	summary, err := models.NewJSONB(payload)
	if err != nil {
		return err
	}
	requestID := RequestIDFrom(ctx)
	event := &models.EventLog{
		ID:             uuid.New(),
		CreatedAt:      s.now().UTC(),
		Workflow:       workflow,
		RequestID:      &requestID,
		ClaimID:        claimID,
		PayloadSummary: summary,
		Status:         status,
	}
	if err := s.store.AppendEvent(ctx, event); err != nil {
		return mapStoreError(err, nil)
	}

	if s.hub != nil && claimID != nil {
		hub, id := s.hub, *claimID
		goroutine.SafeGo(func() {
			if err := hub.Publish(id, TimelineEvent, event); err != nil {
				logger.WithComponent("claims").WithError(err).Warn("не удалось опубликовать событие")
			}
		})
	}
	return nil
}

// record пишет успешное событие; ошибка журнала не отменяет уже выполненную запись.
func (s *ClaimService) record(ctx context.Context, claimID uuid.UUID, workflow string, payload map[string]any) {
	id := claimID
	if err := s.RecordEvent(ctx, &id, workflow, payload, valueobject.EventStatusSuccess); err != nil {
		logger.WithComponent("claims").
			WithError(err).
			WithFields(logrus.Fields{"claim_id": claimID, "workflow": workflow}).
			Error("не удалось записать событие")
	}
}
