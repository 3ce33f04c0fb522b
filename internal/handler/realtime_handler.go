package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sessionServer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string) error
}

// RealtimeHandler upgrades authenticated requests to notification sockets.
type RealtimeHandler struct {
	hub    sessionServer
	logger *zap.Logger
}

// NewRealtimeHandler constructs the handler.
func NewRealtimeHandler(hub sessionServer, logger *zap.Logger) *RealtimeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeHandler{hub: hub, logger: logger}
}

// Connect godoc
// @Summary Open the notification websocket
// @Description Browsers pass the access token as the access_token query parameter
// @Tags Realtime
// @Param access_token query string false "JWT access token"
// @Success 101
// @Failure 401 {object} response.Envelope
// @Router /ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	// The upgrader has already written an HTTP error when Serve fails.
	if err := h.hub.Serve(c.Writer, c.Request, claims.UserID); err != nil {
		h.logger.Debug("websocket upgrade failed", zap.String("user_id", claims.UserID), zap.Error(err))
	}
}
