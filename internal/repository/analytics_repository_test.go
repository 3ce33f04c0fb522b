package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsRepositoryEnrollmentCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments GROUP BY student_id")).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).AddRow("s1", 3).AddRow("s2", 1))

	counts, err := repo.EnrollmentCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"s1": 3, "s2": 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepositoryTeacherLoads(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(DISTINCT e.student_id) AS students")).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "courses", "students"}).AddRow("u9", 2, 40))

	loads, err := repo.TeacherLoads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TeacherLoad{UserID: "u9", Courses: 2, Students: 40}, loads["u9"])
}
