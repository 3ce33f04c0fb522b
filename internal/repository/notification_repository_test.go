package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

func TestNotificationRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "type", "read", "link", "created_at"}).
			AddRow("n1", "u1", "Leave Request approved", "msg", "success", false, "/student/leave-requests", now))
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE NOT read) AS unread")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "unread"}).AddRow(3, 1))

	items, total, unread, err := repo.List(context.Background(), "u1", 1, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.NotificationSuccess, items[0].Type)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, unread)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepositoryForeignIDIsNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2")).
		WithArgs("n1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications WHERE id = $1 AND user_id = $2")).
		WithArgs("n1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.MarkRead(context.Background(), "intruder", "n1"), sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(context.Background(), "intruder", "n1"), sql.ErrNoRows)
}

func TestNotificationRepositoryMarkAllRead(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE user_id = $1 AND read = FALSE")).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}
