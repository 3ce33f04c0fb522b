package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type mockNotificationRepo struct {
	items     []*models.Notification
	createErr error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	copy := *n
	m.items = append(m.items, &copy)
	return nil
}

func (m *mockNotificationRepo) List(ctx context.Context, userID string, page, pageSize int) ([]models.Notification, int, int, error) {
	var out []models.Notification
	unread := 0
	for _, n := range m.items {
		if n.UserID != userID {
			continue
		}
		out = append(out, *n)
		if !n.Read {
			unread++
		}
	}
	return out, len(out), unread, nil
}

func (m *mockNotificationRepo) find(userID, id string) *models.Notification {
	for _, n := range m.items {
		if n.ID == id && n.UserID == userID {
			return n
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, userID, id string) error {
	n := m.find(userID, id)
	if n == nil {
		return sql.ErrNoRows
	}
	n.Read = true
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, userID, id string) error {
	for i, n := range m.items {
		if n.ID == id && n.UserID == userID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type recordingPusher struct {
	pushed   map[string][]interface{}
	sessions int
}

func (p *recordingPusher) Push(userID string, payload interface{}) int {
	if p.pushed == nil {
		p.pushed = map[string][]interface{}{}
	}
	p.pushed[userID] = append(p.pushed[userID], payload)
	return p.sessions
}

func TestNotificationServiceNotifyStoresAndPushes(t *testing.T) {
	repo := &mockNotificationRepo{}
	pusher := &recordingPusher{sessions: 2}
	metrics := NewMetricsService()
	svc := NewNotificationService(repo, pusher, metrics, nil)

	n, err := svc.Notify(context.Background(), NewNotification{UserID: "u1", Title: "Hello", Message: "World", Link: "/x"})
	require.NoError(t, err)
	assert.Equal(t, models.NotificationInfo, n.Type)
	require.NotNil(t, n.Link)
	assert.Len(t, repo.items, 1)
	assert.Len(t, pusher.pushed["u1"], 1)
	assert.Equal(t, uint64(2), metrics.Snapshot().NotificationsPushed)
}

func TestNotificationServiceNotifyWithoutPusher(t *testing.T) {
	repo := &mockNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil, nil)

	_, err := svc.Notify(context.Background(), NewNotification{UserID: "u1", Title: "t", Message: "m"})
	require.NoError(t, err)

	repo.createErr = sql.ErrConnDone
	_, err = svc.Notify(context.Background(), NewNotification{UserID: "u1", Title: "t", Message: "m"})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestNotificationServiceScopesToOwner(t *testing.T) {
	repo := &mockNotificationRepo{items: []*models.Notification{
		{ID: "n1", UserID: "u1"},
		{ID: "n2", UserID: "u1"},
		{ID: "n3", UserID: "u2"},
	}}
	svc := NewNotificationService(repo, nil, nil, nil)
	ctx := context.Background()

	feed, err := svc.List(ctx, "u1", 1, 20)
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 2)
	assert.Equal(t, 2, feed.UnreadCount)
	assert.Equal(t, 1, feed.Pagination.TotalPages)

	assert.ErrorIs(t, svc.MarkRead(ctx, "u1", "n3"), appErrors.ErrNotFound)
	require.NoError(t, svc.MarkRead(ctx, "u1", "n1"))

	count, err := svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, svc.Delete(ctx, "u2", "n1"), appErrors.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "u1", "n1"))
}
