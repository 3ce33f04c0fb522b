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

var timetableCols = []string{"id", "course_id", "teacher_id", "day", "start_time", "end_time", "room", "semester",
	"created_at", "updated_at", "course_code", "course_name", "credit_hours", "teacher_name"}

func TestTimetableRepositoryListForStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	now := time.Now()
	semester := 3
	mock.ExpectQuery(regexp.QuoteMeta("WHERE tt.course_id = ANY($1) AND tt.semester = $2 ORDER BY tt.start_time ASC")).
		WithArgs(sqlmock.AnyArg(), 3).
		WillReturnRows(sqlmock.NewRows(timetableCols).
			AddRow("t1", "c1", "tp1", "Monday", "08:00", "09:30", "R101", 3, now, now, "MTH101", "Algebra", 3, "Pak Budi"))

	slots, err := repo.List(context.Background(), models.TimetableFilter{CourseIDs: []string{"c1"}, Semester: &semester})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "Pak Budi", slots[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectExec("UPDATE timetable SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.TimetableSlot{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
