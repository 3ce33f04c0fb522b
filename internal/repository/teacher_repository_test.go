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
)

var teacherDetailCols = []string{"id", "user_id", "teacher_number", "department", "phone", "address", "date_of_birth",
	"profile_picture", "qualification", "specialization", "created_at", "updated_at", "name", "email"}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM teachers t JOIN users u ON u.id = t.user_id ORDER BY u.full_name ASC")).
		WillReturnRows(sqlmock.NewRows(teacherDetailCols).
			AddRow("t1", "u9", "TCH-01", "Math", nil, nil, nil, nil, "M.Ed", nil, now, now, "Pak Budi", "budi@example.com"))

	teachers, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "TCH-01", teachers[0].TeacherNumber)
	require.NotNil(t, teachers[0].Qualification)
	assert.Equal(t, "M.Ed", *teachers[0].Qualification)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByUserIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.user_id = $1")).WithArgs("u1").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUserID(context.Background(), "u1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestTeacherRepositoryCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teachers")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}
