package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

const userSearchLimit = 10

type messageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	FindByID(ctx context.Context, id string) (*models.MessageDetail, error)
	List(ctx context.Context, userID string, box models.MessageBox) ([]models.MessageDetail, error)
	MarkRead(ctx context.Context, id, receiverID string) error
	Delete(ctx context.Context, id string) error
}

type userDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Search(ctx context.Context, term, excludeID string, limit int) ([]models.UserSummary, error)
}

// SendMessageRequest is the payload of a direct message.
type SendMessageRequest struct {
	ReceiverID      string  `json:"receiver_id" validate:"required,uuid"`
	Subject         string  `json:"subject" validate:"required,max=255"`
	Content         string  `json:"content" validate:"required"`
	ParentMessageID *string `json:"parent_message_id" validate:"omitempty,uuid"`
}

// MessageService handles direct messages between users.
type MessageService struct {
	repo      messageRepository
	users     userDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo messageRepository, users userDirectory, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &MessageService{repo: repo, users: users, validator: validate, logger: logger}
}

// Send delivers a message from senderID.
func (s *MessageService) Send(ctx context.Context, senderID string, req SendMessageRequest) (*models.MessageDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid message payload")
	}
	if _, err := s.users.FindByID(ctx, req.ReceiverID); err != nil {
		return nil, lookupError(err, "receiver not found", "failed to load receiver")
	}
	if req.ParentMessageID != nil {
		if _, err := s.Get(ctx, senderID, *req.ParentMessageID); err != nil {
			return nil, err
		}
	}
	msg := &models.Message{
		SenderID:        senderID,
		ReceiverID:      req.ReceiverID,
		Subject:         strings.TrimSpace(req.Subject),
		Content:         req.Content,
		ParentMessageID: req.ParentMessageID,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		// The receiver or parent can be deleted between the lookups and the insert.
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "receiver or parent message not found")
		}
		return nil, appErrors.Internal(err, "failed to send message")
	}
	return s.Get(ctx, senderID, msg.ID)
}

// Inbox lists messages received by userID, newest first.
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]models.MessageDetail, error) {
	return s.list(ctx, userID, models.BoxInbox)
}

// Sent lists messages sent by userID, newest first.
func (s *MessageService) Sent(ctx context.Context, userID string) ([]models.MessageDetail, error) {
	return s.list(ctx, userID, models.BoxSent)
}

// Get returns a message visible to userID as sender or receiver. Other
// users see NotFound.
func (s *MessageService) Get(ctx context.Context, userID, id string) (*models.MessageDetail, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "message not found", "failed to load message")
	}
	if msg.SenderID != userID && msg.ReceiverID != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "message not found")
	}
	return msg, nil
}

// MarkRead marks a received message read.
func (s *MessageService) MarkRead(ctx context.Context, userID, id string) (*models.MessageDetail, error) {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return nil, lookupError(err, "message not found", "failed to mark message read")
	}
	return s.Get(ctx, userID, id)
}

// Delete removes a message the user sent or received.
func (s *MessageService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "message not found", "failed to delete message")
	}
	return nil
}

// SearchUsers finds recipients by name or email, excluding the caller.
func (s *MessageService) SearchUsers(ctx context.Context, userID, term string) ([]models.UserSummary, error) {
	users, err := s.users.Search(ctx, strings.TrimSpace(term), userID, userSearchLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to search users")
	}
	return nonNil(users), nil
}

func (s *MessageService) list(ctx context.Context, userID string, box models.MessageBox) ([]models.MessageDetail, error) {
	items, err := s.repo.List(ctx, userID, box)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list messages")
	}
	return nonNil(items), nil
}
