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

var announcementCols = []string{"id", "title", "content", "author_id", "target_audience", "priority", "expiry_date", "created_at", "updated_at", "author_name"}

func TestAnnouncementRepositoryFeed(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.target_audience = ANY($1) AND (a.expiry_date IS NULL OR a.expiry_date >= $2)")).
		WithArgs(sqlmock.AnyArg(), now).
		WillReturnRows(sqlmock.NewRows(announcementCols).
			AddRow("a1", "Exam week", "Bring IDs", "admin", "students", "high", nil, now, now, "Admin").
			AddRow("a2", "Holiday", "Closed", "admin", "all", "low", nil, now, now, "Admin"))

	items, err := repo.List(context.Background(), models.AnnouncementFilter{
		Audiences: []models.AnnouncementAudience{models.AudienceAll, models.AudienceStudents},
		Now:       &now,
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.PriorityHigh, items[0].Priority)
	assert.Equal(t, "Admin", items[0].AuthorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnnouncementRepositoryOrdersByPriority(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY CASE a.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, a.created_at DESC")).
		WillReturnRows(sqlmock.NewRows(announcementCols))

	items, err := repo.List(context.Background(), models.AnnouncementFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAnnouncementRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnnouncementRepository(db)

	mock.ExpectExec("INSERT INTO announcements").WillReturnResult(sqlmock.NewResult(1, 1))

	item := &models.Announcement{Title: "t", Content: "c", AuthorID: "admin", Audience: models.AudienceAll, Priority: models.PriorityMedium}
	require.NoError(t, repo.Create(context.Background(), item))
	assert.NotEmpty(t, item.ID)
}
