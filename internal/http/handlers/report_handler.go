package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/sinistros-backend/internal/dto"
	"github.com/ignatzorin/sinistros-backend/internal/http/handlers/common"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/service"
)

// ReportHandler отдаёт месячный отчёт.
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Monthly обрабатывает GET /api/relatorios?data_inicio=...&data_fim=...
func (h *ReportHandler) Monthly(c *gin.Context) {
	var req dto.MonthlyReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		common.Respond(c, apperror.Wrap(err, apperror.ErrCodeValidation, "parâmetros inválidos"))
		return
	}

	report, err := h.reports.MonthlyReport(c.Request.Context(), req)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, report)
}
