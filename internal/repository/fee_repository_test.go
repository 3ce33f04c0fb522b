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

var feeCols = []string{"id", "student_id", "amount", "semester", "description", "due_date", "status", "created_at", "updated_at"}

func TestFeeRepositoryListForStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	now := time.Now()
	cols := append(append([]string{}, feeCols...), "student_name", "student_email")
	mock.ExpectQuery(regexp.QuoteMeta("JOIN users u ON u.id = s.user_id WHERE f.student_id = $1 ORDER BY f.created_at DESC")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("f1", "s1", 1500.0, "1", "Tuition", now, "Unpaid", now, now, "Ayu", "ayu@example.com"))

	fees, err := repo.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, models.FeeUnpaid, fees[0].Status)
	assert.Equal(t, "ayu@example.com", fees[0].StudentEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE fees SET status = $2")).
		WithArgs("f1", models.FeePaid, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE fees SET status = $2")).
		WithArgs("missing", models.FeePaid, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), "f1", models.FeePaid))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), "missing", models.FeePaid), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewFeeRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM fees f")).
		WillReturnRows(sqlmock.NewRows(feeCols).
			AddRow("f1", "s1", 100.0, "1", "Lab", now, "Paid", now, now).
			AddRow("f2", "s2", 50.0, "1", "Lab", now, "Unpaid", now, now))

	fees, err := repo.All(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, fees, 2)
}
