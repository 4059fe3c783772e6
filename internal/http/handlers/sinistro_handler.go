package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/sinistros-backend/internal/domain/valueobject"
	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/http/handlers/common"
	"github.com/ignatzorin/sinistros-backend/internal/models"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/service"
)

// SinistroHandler старый поток /api/sinistros: записи, документы, запросы недостающих данных и хронология.
type SinistroHandler struct {
	legacy *service.LegacyService
}

func NewSinistroHandler(legacy *service.LegacyService) *SinistroHandler {
	return &SinistroHandler{legacy: legacy}
}

// ListSinistros обрабатывает GET /api/sinistros.
// Параметры: data_inicio, data_fim, busca, status (через запятую), seguradora, limit, offset.
func (h *SinistroHandler) ListSinistros(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	filter := models.SinistroFilter{
		Search:  strings.TrimSpace(c.Query("busca")),
		Insurer: strings.TrimSpace(c.Query("seguradora")),
		Limit:   limit,
		Offset:  offset,
	}

	if raw := c.Query("data_inicio"); raw != "" {
		from, err := dto.ParseDate(raw)
		if err != nil {
			common.Respond(c, err)
			return
		}
		filter.From = &from
	}
	if raw := c.Query("data_fim"); raw != "" {
		to, err := dto.ParseDate(raw)
		if err != nil {
			common.Respond(c, err)
			return
		}
		filter.To = &to
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := valueobject.NewSinistroStatus(strings.TrimSpace(part))
			if err != nil {
				common.Respond(c, apperror.Validation("status inválido: %s", part))
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	items, total, err := h.legacy.ListSinistros(c.Request.Context(), filter)
	if err != nil {
		common.Respond(c, err)
		return
	}
	if items == nil {
		items = []models.Sinistro{}
	}

	common.RespondJSON(c, http.StatusOK, gin.H{
		"sinistros": items,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// GetSinistro обрабатывает GET /api/sinistros/:id.
func (h *SinistroHandler) GetSinistro(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Respond(c, err)
		return
	}

	sin, err := h.legacy.GetSinistro(c.Request.Context(), id)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, sin)
}

// CreateSinistro обрабатывает POST /api/sinistros.
func (h *SinistroHandler) CreateSinistro(c *gin.Context) {
	var req dto.CreateSinistroRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Respond(c, err)
		return
	}

	sin, err := h.legacy.CreateSinistro(c.Request.Context(), req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, dto.SinistroCreatedResponse{
		SinistroID: sin.ID,
		Message:    "Sinistro registrado com sucesso",
	})
}

// UpdateStatus обрабатывает PATCH /api/sinistros/:id/status.
func (h *SinistroHandler) UpdateStatus(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Respond(c, err)
		return
	}

	var req dto.UpdateSinistroStatusRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Respond(c, err)
		return
	}

	sin, err := h.legacy.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, sin)
}

// UpdateProtocol обрабатывает PATCH /api/sinistros/:id/protocol.
func (h *SinistroHandler) UpdateProtocol(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Respond(c, err)
		return
	}

	var req dto.UpdateProtocolRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Respond(c, err)
		return
	}

	sin, err := h.legacy.UpdateProtocol(c.Request.Context(), id, req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, sin)
}

// ListDocumentos обрабатывает GET /api/documentos/:sinistroId.
func (h *SinistroHandler) ListDocumentos(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "sinistroId")
	if err != nil {
		common.Respond(c, err)
		return
	}

	docs, err := h.legacy.ListDocumentos(c.Request.Context(), id)
	if err != nil {
		common.Respond(c, err)
		return
	}
	if docs == nil {
		docs = []models.Documento{}
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"documentos": docs})
}

// CreateDocumento обрабатывает POST /api/documentos.
func (h *SinistroHandler) CreateDocumento(c *gin.Context) {
	var req dto.CreateDocumentoRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Respond(c, err)
		return
	}

	doc, err := h.legacy.CreateDocumento(c.Request.Context(), req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, doc)
}

// ListPendencias обрабатывает GET /api/pendencias/:sinistroId.
func (h *SinistroHandler) ListPendencias(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "sinistroId")
	if err != nil {
		common.Respond(c, err)
		return
	}

	items, err := h.legacy.ListPendencias(c.Request.Context(), id)
	if err != nil {
		common.Respond(c, err)
		return
	}
	if items == nil {
		items = []models.Pendencia{}
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"pendencias": items})
}

// CreatePendencia обрабатывает POST /api/pendencias.
func (h *SinistroHandler) CreatePendencia(c *gin.Context) {
	var req dto.CreatePendenciaRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Respond(c, err)
		return
	}

	item, err := h.legacy.CreatePendencia(c.Request.Context(), req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, item)
}

// ListAndamentos обрабатывает GET /api/andamentos/:sinistroId.
func (h *SinistroHandler) ListAndamentos(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "sinistroId")
	if err != nil {
		common.Respond(c, err)
		return
	}

	items, err := h.legacy.ListAndamentos(c.Request.Context(), id)
	if err != nil {
		common.Respond(c, err)
		return
	}
	if items == nil {
		items = []models.Andamento{}
	}
	common.RespondJSON(c, http.StatusOK, gin.H{"andamentos": items})
}

// CreateAndamento обрабатывает POST /api/andamentos.
func (h *SinistroHandler) CreateAndamento(c *gin.Context) {
	var req dto.CreateAndamentoRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Respond(c, err)
		return
	}

	item, err := h.legacy.CreateAndamento(c.Request.Context(), req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusCreated, item)
}
