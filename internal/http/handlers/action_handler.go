package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/sinistros-backend/internal/dispatcher"
	"github.com/ignatzorin/sinistros-backend/internal/http/handlers/common"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
)

const maxActionBody = 1 << 20

// ActionHandler единая точка входа для действий: удалённая автоматизация,
// локальная реализация или демонстрационный режим.
type ActionHandler struct {
	dispatcher *dispatcher.Dispatcher
}

// NewActionHandler создаёт handler действий.
func NewActionHandler(d *dispatcher.Dispatcher) *ActionHandler {
	return &ActionHandler{dispatcher: d}
}

// Invoke обрабатывает POST /api/actions/:action.
func (h *ActionHandler) Invoke(c *gin.Context) {
	action, err := dispatcher.ParseAction(c.Param("action"))
	if err != nil {
		common.Respond(c, err)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxActionBody))
	if err != nil {
		common.Respond(c, apperror.Wrap(err, apperror.ErrCodeValidation, "corpo da requisição inválido"))
		return
	}

	payload, err := action.DecodePayload(raw)
	if err != nil {
		common.Respond(c, err)
		return
	}

	result, err := h.dispatcher.Invoke(c.Request.Context(), action, payload)
	if err != nil {
		common.Respond(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, result)
}
