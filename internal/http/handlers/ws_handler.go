package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ignatzorin/sinistros-backend/internal/http/handlers/common"
	"github.com/ignatzorin/sinistros-backend/internal/logger"
	"github.com/ignatzorin/sinistros-backend/internal/pkg/apperror"
	"github.com/ignatzorin/sinistros-backend/internal/service"
	"github.com/ignatzorin/sinistros-backend/internal/ws"
)

// WSHandler отвечает за подписку на хронологию синистра.
type WSHandler struct {
	hub      *ws.Hub
	claims   *service.ClaimService
	upgrader websocket.Upgrader
}

// NewWSHandler создаёт новый хэндлер.
func NewWSHandler(hub *ws.Hub, claims *service.ClaimService) *WSHandler {
	return &WSHandler{
		hub:    hub,
		claims: claims,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle обслуживает GET /api/ws?claim_id=...
func (h *WSHandler) Handle(c *gin.Context) {
	claimID, err := uuid.Parse(c.Query("claim_id"))
	if err != nil {
		common.Respond(c, apperror.Validation("claim_id inválido"))
		return
	}
	if _, err := h.claims.GetClaim(c.Request.Context(), claimID); err != nil {
		common.Respond(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		logger.Log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(conn, h.hub, claimID)
	h.hub.Register(client)

	client.Run(c.Request.Context())
}
