package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/http/handlers/common"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/service"
	"github.com/ignatzorin/sinistros-backend/internal/storage"
)

// PortalHandler публичный портал третьего лица. Доступ только по токену из ссылки.
type PortalHandler struct {
	claims    *service.ClaimService
	artifacts *storage.ArtifactStorage
}

// NewPortalHandler создаёт handler портала.
func NewPortalHandler(claims *service.ClaimService, artifacts *storage.ArtifactStorage) *PortalHandler {
	return &PortalHandler{claims: claims, artifacts: artifacts}
}

// Resolve обрабатывает GET /api/terceiros/portal/:token.
func (h *PortalHandler) Resolve(c *gin.Context) {
	view, err := h.claims.ResolvePortal(c.Request.Context(), c.Param("token"))
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, view)
}

// SubmitData обрабатывает POST /api/terceiros/portal/:token/dados.
func (h *PortalHandler) SubmitData(c *gin.Context) {
	var data models.ThirdPartyData
	if err := common.BindJSON(c, &data); err != nil {
		common.Respond(c, err)
		return
	}

	tp, err := h.claims.SubmitThirdPartyData(c.Request.Context(), c.Param("token"), data)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, dto.ThirdPartyResponse{
		ThirdParty: tp,
		Message:    "Dados recebidos com sucesso",
	})
}

// UploadFiles обрабатывает POST /api/terceiros/portal/:token/arquivos (multipart).
func (h *PortalHandler) UploadFiles(c *gin.Context) {
	token := c.Param("token")
	view, err := h.claims.ResolvePortal(c.Request.Context(), token)
	if err != nil {
		common.Respond(c, err)
		return
	}

	uploads, err := saveUploads(c, h.artifacts, view.ThirdParty.ClaimID)
	if err != nil {
		common.Respond(c, err)
		return
	}

	files, err := h.claims.RegisterPortalFiles(c.Request.Context(), token, uploads)
	if err != nil {
		discardUploads(c, h.artifacts, uploads)
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, dto.UploadFilesResponse{
		Files:   files,
		Message: "Arquivos enviados com sucesso",
	})
}
