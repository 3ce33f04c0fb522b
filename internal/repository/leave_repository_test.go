package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
)

var leaveCols = []string{"id", "student_id", "start_date", "end_date", "reason", "status", "reviewed_by", "review_date",
	"admin_remarks", "created_at", "updated_at", "student_user_id", "student_name", "student_email", "reviewer_name"}

func TestLeaveRepositoryReviewOnlyPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	now := time.Now().UTC()
	review := models.LeaveReview{ID: "l1", Status: models.LeaveApproved, ReviewerID: "admin", ReviewedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'pending'")).
		WithArgs("l1", models.LeaveApproved, "admin", now, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = 'pending'")).
		WithArgs("l1", models.LeaveApproved, "admin", now, nil).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Review(context.Background(), review)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Review(context.Background(), review)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryListByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	now := time.Now()
	status := models.LeavePending
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN users rv ON rv.id = l.reviewed_by WHERE l.status = $1 ORDER BY l.created_at DESC")).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows(leaveCols).
			AddRow("l1", "s1", now, now, "sick", "pending", nil, nil, nil, now, now, "u1", "Ayu", "ayu@example.com", nil))

	leaves, err := repo.List(context.Background(), &status, "")
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, "u1", leaves[0].StudentUserID)
	assert.Nil(t, leaves[0].ReviewerName)
}
