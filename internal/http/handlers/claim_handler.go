package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/http/handlers/common"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/service"
	"github.com/ignatzorin/sinistros-backend/internal/storage"
	"github.com/ignatzorin/sinistros-backend/internal/validation"
)

// ClaimHandler обслуживает панель, карточку синистра и загрузку файлов.
type ClaimHandler struct {
	claims    *service.ClaimService
	agg       *service.AggregationService
	artifacts *storage.ArtifactStorage
}

// NewClaimHandler создаёт handler синистров.
func NewClaimHandler(claims *service.ClaimService, agg *service.AggregationService, artifacts *storage.ArtifactStorage) *ClaimHandler {
	return &ClaimHandler{claims: claims, agg: agg, artifacts: artifacts}
}

// Dashboard обрабатывает GET /api/dashboard.
func (h *ClaimHandler) Dashboard(c *gin.Context) {
	var req dto.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.Respond(c, apperror.Wrap(err, apperror.ErrCodeValidation, "parâmetros inválidos"))
		return
	}

	dashboard, err := h.agg.Dashboard(c.Request.Context(), req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, dashboard)
}

// GetClaim обрабатывает GET /api/claims/:id.
func (h *ClaimHandler) GetClaim(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Respond(c, err)
		return
	}

	detail, err := h.agg.ClaimDetail(c.Request.Context(), id)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, detail)
}

// CreateClaim обрабатывает POST /api/claims.
func (h *ClaimHandler) CreateClaim(c *gin.Context) {
	var req dto.CreateClaimRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Respond(c, err)
		return
	}

	claim, err := h.claims.CreateClaim(c.Request.Context(), req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, dto.CreateClaimResponse{
		ClaimID: claim.ID,
		Status:  claim.Status,
		Message: "Sinistro criado com sucesso",
	})
}

// UploadFiles обрабатывает POST /api/claims/:id/arquivos (multipart).
func (h *ClaimHandler) UploadFiles(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Respond(c, err)
		return
	}

	// до сохранения на диск: синистр должен существовать и принимать файлы
	claim, err := h.claims.GetClaim(c.Request.Context(), id)
	if err != nil {
		common.Respond(c, err)
		return
	}
	if claim.Status.IsTerminal() {
		common.Respond(c, apperror.InvalidTransition("sinistro %s não aceita novos arquivos", claim.Status))
		return
	}

	uploads, err := saveUploads(c, h.artifacts, id)
	if err != nil {
		common.Respond(c, err)
		return
	}

	source := c.DefaultPostForm("fonte", string(valueobject.FileSourceInsured))
	files, err := h.claims.RegisterFiles(c.Request.Context(), dto.UploadFilesRequest{
		ClaimID: id,
		Source:  source,
		Files:   uploads,
	})
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

// ListShops обрабатывает GET /api/oficinas?uf=SP.
func (h *ClaimHandler) ListShops(c *gin.Context) {
	uf := c.Query("uf")
	if uf != "" {
		if err := validation.ValidateUF(uf); err != nil {
			common.Respond(c, apperror.Validation("%s", err.Error()))
			return
		}
	}

	shops, err := h.claims.ListShops(c.Request.Context(), uf)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"oficinas": shops})
}
