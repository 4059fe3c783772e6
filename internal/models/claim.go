package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
)

// Claim описывает синистр от регистрации до закрытия.
type Claim struct {
	ID                   uuid.UUID               `db:"id" json:"id"`
	CreatedAt            time.Time               `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time               `db:"updated_at" json:"updated_at"`
	Plate                string                  `db:"placa" json:"placa"`
	InsuredTaxID         string                  `db:"cpf_segurado" json:"cpf_segurado"`
	EventDate            time.Time               `db:"data_evento" json:"data_evento"`
	EventCity            string                  `db:"local_evento_cidade" json:"local_evento_cidade"`
	EventState           string                  `db:"local_evento_uf" json:"local_evento_uf"`
	Type                 valueobject.ClaimType   `db:"tipo_sinistro" json:"tipo_sinistro"`
	Deductible           *float64                `db:"franquia_prevista" json:"franquia_prevista"`
	Status               valueobject.ClaimStatus `db:"status" json:"status"`
	TotalLossProbability *float64                `db:"prob_pt" json:"prob_pt"`
	EstimateID           *uuid.UUID              `db:"estimativa_id" json:"estimativa_id"`
	ShopID               *uuid.UUID              `db:"oficina_id" json:"oficina_id"`
	ThirdPartyToken      *string                 `db:"terceiro_token" json:"-"`
	Summary              *string                 `db:"resumo" json:"resumo"`
	ClosedAt             *time.Time              `db:"encerrado_em" json:"encerrado_em"`
}

// ClaimFilter параметры выборки для дашборда.
type ClaimFilter struct {
	From   *time.Time
	To     *time.Time
	Search string
	Status valueobject.ClaimStatus
}

// Estimate оценка ущерба; после создания не меняется.
type Estimate struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	ClaimID              uuid.UUID `db:"claim_id" json:"claim_id"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	EstimatedValue       float64   `db:"valor_estimado" json:"valor_estimado"`
	LaborHours           float64   `db:"horas_mo" json:"horas_mo"`
	TotalLossProbability float64   `db:"prob_pt" json:"prob_pt"`
	Breakdown            JSONB     `db:"resumo_json" json:"resumo_json"`
}

// EstimateBreakdown структура поля resumo_json.
type EstimateBreakdown struct {
	AffectedParts []string `json:"pecas_afetadas"`
	Notes         string   `json:"observacoes"`
}

// Shop запись справочника мастерских.
type Shop struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"nome" json:"nome"`
	City         string    `db:"cidade" json:"cidade"`
	State        string    `db:"uf" json:"uf"`
	SLADays      int       `db:"sla_medio_dias" json:"sla_medio_dias"`
	QualityScore int       `db:"score_qualidade" json:"score_qualidade"`
}

// RankedShop мастерская с рассчитанным баллом.
type RankedShop struct {
	Shop
	Score float64 `json:"score"`
}

// Schedule связывает синистр с мастерской.
type Schedule struct {
	ID          uuid.UUID                  `db:"id" json:"id"`
	ClaimID     uuid.UUID                  `db:"claim_id" json:"claim_id"`
	ShopID      uuid.UUID                  `db:"oficina_id" json:"oficina_id"`
	ScheduledAt *time.Time                 `db:"data_agendada" json:"data_agendada"`
	Status      valueobject.ScheduleStatus `db:"status" json:"status"`
	CreatedAt   time.Time                  `db:"created_at" json:"created_at"`
}

// ThirdParty приглашённое третье лицо.
type ThirdParty struct {
	ID          uuid.UUID                    `db:"id" json:"id"`
	ClaimID     uuid.UUID                    `db:"claim_id" json:"claim_id"`
	Token       string                       `db:"token" json:"-"`
	Name        *string                      `db:"nome" json:"nome"`
	TaxID       *string                      `db:"cpf" json:"cpf"`
	Email       *string                      `db:"email" json:"email"`
	Phone       *string                      `db:"telefone" json:"telefone"`
	Status      valueobject.ThirdPartyStatus `db:"status" json:"status"`
	CreatedAt   time.Time                    `db:"created_at" json:"created_at"`
	SubmittedAt *time.Time                   `db:"dados_recebidos_em" json:"dados_recebidos_em"`
}

// ThirdPartyData данные, которые третье лицо отправляет через портал.
type ThirdPartyData struct {
	Name  string `json:"nome"`
	TaxID string `json:"cpf"`
	Email string `json:"email"`
	Phone string `json:"telefone"`
}

// File загруженный артефакт.
type File struct {
	ID        uuid.UUID              `db:"id" json:"id"`
	ClaimID   uuid.UUID              `db:"claim_id" json:"claim_id"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
	Source    valueobject.FileSource `db:"fonte" json:"fonte"`
	Kind      valueobject.FileKind   `db:"tipo" json:"tipo"`
	URL       string                 `db:"arquivo_url" json:"arquivo_url"`
	Metadata  JSONB                  `db:"metadados_json" json:"metadados_json"`
}

// FileMetadata структура поля metadados_json.
type FileMetadata struct {
	OriginalName string `json:"nome_original"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"tamanho,omitempty"`
}

// EventLog запись журнала вызовов workflow.
type EventLog struct {
	ID             uuid.UUID               `db:"id" json:"id"`
	CreatedAt      time.Time               `db:"created_at" json:"created_at"`
	Workflow       string                  `db:"workflow" json:"workflow"`
	RequestID      *string                 `db:"request_id" json:"request_id"`
	ClaimID        *uuid.UUID              `db:"claim_id" json:"claim_id"`
	PayloadSummary JSONB                   `db:"payload_resumo" json:"payload_resumo"`
	Status         valueobject.EventStatus `db:"status" json:"status"`
}

// EstimateDraft результат оценщика до сохранения.
type EstimateDraft struct {
	EstimatedValue       float64           `json:"valor_estimado"`
	LaborHours           float64           `json:"horas_mo"`
	TotalLossProbability float64           `json:"prob_pt"`
	Breakdown            EstimateBreakdown `json:"resumo_json"`
}
