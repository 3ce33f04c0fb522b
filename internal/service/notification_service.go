package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID string, page, pageSize int) ([]models.Notification, int, int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}

// NotificationPusher delivers a payload to the live sessions of a user and
// reports how many sessions accepted it.
type NotificationPusher interface {
	Push(userID string, payload interface{}) int
}

// NewNotification describes a notification to create for one user.
type NewNotification struct {
	UserID  string
	Title   string
	Message string
	Type    models.NotificationType
	Link    string
}

// NotificationService stores in-app notifications and pushes them to
// connected clients.
type NotificationService struct {
	repo    notificationRepository
	pusher  NotificationPusher
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewNotificationService constructs a NotificationService. A nil pusher
// disables live delivery.
func NewNotificationService(repo notificationRepository, pusher NotificationPusher, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, pusher: pusher, metrics: metrics, logger: logger, now: time.Now}
}

// Notify stores the notification and pushes it to the user's sessions. The
// stored row is the delivery; the push is best effort.
func (s *NotificationService) Notify(ctx context.Context, in NewNotification) (*models.Notification, error) {
	if in.Type == "" {
		in.Type = models.NotificationInfo
	}
	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      in.Type,
		CreatedAt: s.now().UTC(),
	}
	if in.Link != "" {
		n.Link = &in.Link
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, appErrors.Internal(err, "failed to create notification")
	}
	if s.pusher != nil {
		sessions := s.pusher.Push(n.UserID, n)
		s.metrics.RecordNotificationPush(sessions)
		s.logger.Debug("notification pushed", zap.String("user_id", n.UserID), zap.Int("sessions", sessions))
	}
	return n, nil
}

// List returns one page of the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (*dto.NotificationFeed, error) {
	items, total, unread, err := s.repo.List(ctx, userID, page, limit)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notifications")
	}
	return &dto.NotificationFeed{
		Notifications: nonNil(items),
		Pagination:    models.NewPagination(page, limit, total),
		UnreadCount:   unread,
	}, nil
}

// MarkRead marks one of the user's notifications read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return lookupError(err, "notification not found", "failed to mark notification read")
	}
	return nil
}

// MarkAllRead marks every unread notification of the user read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to mark notifications read")
	}
	return count, nil
}

// Delete removes one of the user's notifications.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return lookupError(err, "notification not found", "failed to delete notification")
	}
	return nil
}
