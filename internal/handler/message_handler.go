package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type messageService interface {
	Send(ctx context.Context, senderID string, req service.SendMessageRequest) (*models.MessageDetail, error)
	Inbox(ctx context.Context, userID string) ([]models.MessageDetail, error)
	Sent(ctx context.Context, userID string) ([]models.MessageDetail, error)
	Get(ctx context.Context, userID, id string) (*models.MessageDetail, error)
	MarkRead(ctx context.Context, userID, id string) (*models.MessageDetail, error)
	Delete(ctx context.Context, userID, id string) error
	SearchUsers(ctx context.Context, userID, term string) ([]models.UserSummary, error)
}

// MessageHandler exposes direct messaging between users.
type MessageHandler struct {
	service messageService
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(svc messageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Send godoc
// @Summary Send a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body service.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	var req service.SendMessageRequest
	if !bindJSON(c, &req, "invalid message payload") {
		return
	}
	msg, err := h.service.Send(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Inbox godoc
// @Summary Received messages
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /messages/inbox [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	h.list(c, h.service.Inbox)
}

// Sent godoc
// @Summary Sent messages
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /messages/sent [get]
func (h *MessageHandler) Sent(c *gin.Context) {
	h.list(c, h.service.Sent)
}

func (h *MessageHandler) list(c *gin.Context, fetch func(context.Context, string) ([]models.MessageDetail, error)) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	items, err := fetch(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Get godoc
// @Summary Read one message
// @Tags Messages
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	msg, err := h.service.Get(c.Request.Context(), claims.UserID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}

// MarkRead godoc
// @Summary Mark a received message read
// @Tags Messages
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} response.Envelope
// @Router /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	msg, err := h.service.MarkRead(c.Request.Context(), claims.UserID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, msg)
}

// Delete godoc
// @Summary Delete a message
// @Tags Messages
// @Param id path string true "Message ID"
// @Success 204
// @Router /messages/{id} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SearchUsers godoc
// @Summary Find message recipients
// @Tags Messages
// @Produce json
// @Param q query string true "Name or email fragment"
// @Success 200 {object} response.Envelope
// @Router /messages/users/search [get]
func (h *MessageHandler) SearchUsers(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	users, err := h.service.SearchUsers(c.Request.Context(), claims.UserID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}
