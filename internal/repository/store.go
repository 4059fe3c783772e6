package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/repository/common"
)

// Ошибки, общие для обеих реализаций.
var (
	ErrNotFound            = common.ErrNotFound
	ErrConstraintViolation = common.ErrConstraintViolation
	ErrStatusConflict      = common.ErrStatusConflict
)

// Названия реализаций.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// StatusChange описывает переход статуса с проверкой предыдущего значения.
type StatusChange struct {
	From valueobject.ClaimStatus
	To   valueobject.ClaimStatus
}

// ClaimStore хранит синистры и связанные с ними записи.
type ClaimStore interface {
	GetClaim(ctx context.Context, id uuid.UUID) (*models.Claim, error)
	ListClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error)
	CreateClaim(ctx context.Context, claim *models.Claim) error
	UpdateClaimStatus(ctx context.Context, id uuid.UUID, change StatusChange, closedAt *time.Time) error

	GetEstimate(ctx context.Context, claimID uuid.UUID) (*models.Estimate, error)
	CreateEstimate(ctx context.Context, estimate *models.Estimate, change StatusChange) error

	ListShops(ctx context.Context) ([]models.Shop, error)
	GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)

	GetSchedule(ctx context.Context, claimID uuid.UUID) (*models.Schedule, error)
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	UpdateScheduleStatus(ctx context.Context, id uuid.UUID, status valueobject.ScheduleStatus, at *time.Time) error

	GetThirdParty(ctx context.Context, claimID uuid.UUID) (*models.ThirdParty, error)
	GetThirdPartyByToken(ctx context.Context, token string) (*models.ThirdParty, error)
	CreateThirdParty(ctx context.Context, tp *models.ThirdParty) error
	UpdateThirdParty(ctx context.Context, tp *models.ThirdParty) error

	ListFiles(ctx context.Context, claimID uuid.UUID) ([]models.File, error)
	CreateFile(ctx context.Context, file *models.File) error

	ListEvents(ctx context.Context, claimID uuid.UUID) ([]models.EventLog, error)
	AppendEvent(ctx context.Context, event *models.EventLog) error
}

// LegacyStore хранит записи старого потока /api/sinistros.
type LegacyStore interface {
	ListSinistros(ctx context.Context, filter models.SinistroFilter) ([]models.Sinistro, int, error)
	GetSinistro(ctx context.Context, id uuid.UUID) (*models.Sinistro, error)
	CreateSinistro(ctx context.Context, s *models.Sinistro) error
	UpdateSinistroStatus(ctx context.Context, id uuid.UUID, status valueobject.SinistroStatus) error
	UpdateSinistroProtocol(ctx context.Context, id uuid.UUID, protocol string) error

	ListDocumentos(ctx context.Context, sinistroID uuid.UUID) ([]models.Documento, error)
	CreateDocumento(ctx context.Context, d *models.Documento) error
	ListPendencias(ctx context.Context, sinistroID uuid.UUID) ([]models.Pendencia, error)
	CreatePendencia(ctx context.Context, p *models.Pendencia) error
	ListAndamentos(ctx context.Context, sinistroID uuid.UUID) ([]models.Andamento, error)
	CreateAndamento(ctx context.Context, a *models.Andamento) error
}

// Store единый контракт хранилища. Реализация выбирается один раз при старте.
type Store interface {
	ClaimStore
	LegacyStore
	Ping(ctx context.Context) error
	Backend() string
}
