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

var studentDetailCols = []string{"id", "user_id", "student_number", "department", "semester", "section", "roll_number",
	"phone", "address", "date_of_birth", "profile_picture", "guardian_name", "guardian_phone", "blood_group",
	"created_at", "updated_at", "name", "email"}

func TestStudentRepositoryFindByUserID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students s JOIN users u ON u.id = s.user_id WHERE s.user_id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(studentDetailCols).
			AddRow("s1", "u1", "STU-001", "Science", 3, "A", "12", nil, nil, nil, nil, nil, nil, nil, now, now, "Ayu", "ayu@example.com"))

	student, err := repo.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "s1", student.ID)
	assert.Equal(t, "STU-001", student.StudentNumber)
	assert.Equal(t, 3, student.Semester)
	assert.Equal(t, "Ayu", student.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("JOIN enrollments e ON e.student_id = s.id WHERE e.course_id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(studentDetailCols).
			AddRow("s1", "u1", "STU-001", "Science", 3, "A", "12", nil, nil, nil, nil, nil, nil, nil, now, now, "Ayu", "ayu@example.com").
			AddRow("s2", "u2", "STU-002", "Science", 3, "A", "13", nil, nil, nil, nil, nil, nil, nil, now, now, "Bima", "bima@example.com"))

	students, err := repo.ListByCourse(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").WillReturnResult(sqlmock.NewResult(1, 1))

	student := &models.Student{UserID: "u1", StudentNumber: "STU-001", Semester: 1}
	require.NoError(t, repo.Create(context.Background(), student))
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.CreatedAt.IsZero())
}

func TestStudentRepositoryUpdateContactMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	phone := "0812"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET phone = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateContact(context.Background(), "missing", models.ContactInfo{Phone: &phone})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
