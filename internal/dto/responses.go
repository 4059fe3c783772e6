package dto

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/sinistros-backend/internal/domain/lifecycle"
	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/models"
)

// CreateClaimResponse is returned by sinistros_criar.
type CreateClaimResponse struct {
	ClaimID uuid.UUID               `json:"claim_id"`
	Status  valueobject.ClaimStatus `json:"status"`
	Message string                  `json:"mensagem"`
}

// UploadFilesResponse is returned by arquivos_upload.
type UploadFilesResponse struct {
	Files   []models.File `json:"arquivos"`
	Message string        `json:"mensagem"`
}

// EstimateResponse is returned by estimativa_gerar.
type EstimateResponse struct {
	Estimate          *models.Estimate   `json:"estimativa"`
	TotalLossEligible bool               `json:"elegivel_perda_total"`
	AvailableActions  []lifecycle.Action `json:"acoes_disponiveis"`
	Message           string             `json:"mensagem"`
}

// ShopRoutingResponse is returned by oficinas_rotear_agendar.
// Shops is filled for "match", Schedule for "atribuir" and "agendar".
type ShopRoutingResponse struct {
	Shops    []models.RankedShop `json:"oficinas,omitempty"`
	Schedule *models.Schedule    `json:"agenda,omitempty"`
	Message  string              `json:"mensagem"`
}

// StatusResponse is returned by status-changing actions.
type StatusResponse struct {
	ClaimID uuid.UUID               `json:"claim_id"`
	Status  valueobject.ClaimStatus `json:"status"`
	Message string                  `json:"mensagem"`
}

// ThirdPartyResponse is returned by terceiros.
// Token and Link are filled for "gerar_link", ThirdParty for "submit".
type ThirdPartyResponse struct {
	Token      string             `json:"token,omitempty"`
	Link       string             `json:"link,omitempty"`
	ThirdParty *models.ThirdParty `json:"terceiro,omitempty"`
	Message    string             `json:"mensagem"`
}

// SinistroCreatedResponse is returned by the legacy intake.
type SinistroCreatedResponse struct {
	SinistroID uuid.UUID `json:"sinistro_id"`
	Message    string    `json:"mensagem"`
}

// NoticeResponse is returned by sinistro_enviar_aviso.
type NoticeResponse struct {
	Protocol string `json:"protocolo"`
	Message  string `json:"mensagem"`
}
