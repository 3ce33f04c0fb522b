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

type mockStudentRepo struct {
	byUser   map[string]*models.StudentDetail
	contacts map[string]models.ContactInfo
	byCourse map[string][]models.StudentDetail
}

func newMockStudentRepo(students ...models.StudentDetail) *mockStudentRepo {
	m := &mockStudentRepo{byUser: map[string]*models.StudentDetail{}, contacts: map[string]models.ContactInfo{}}
	for i := range students {
		s := students[i]
		m.byUser[s.UserID] = &s
	}
	return m
}

func (m *mockStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	if s, ok := m.byUser[userID]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	for _, s := range m.byUser {
		if s.ID == id {
			copy := *s
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error) {
	return m.byCourse[courseID], nil
}

func (m *mockStudentRepo) UpdateContact(ctx context.Context, id string, contact models.ContactInfo) error {
	for _, s := range m.byUser {
		if s.ID == id {
			s.ContactInfo = contact
			m.contacts[id] = contact
			return nil
		}
	}
	return sql.ErrNoRows
}

type mockTeacherRepo struct {
	byUser map[string]*models.TeacherDetail
}

func (m *mockTeacherRepo) FindByUserID(ctx context.Context, userID string) (*models.TeacherDetail, error) {
	if t, ok := m.byUser[userID]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) UpdateContact(ctx context.Context, id string, contact models.ContactInfo) error {
	for _, t := range m.byUser {
		if t.ID == id {
			t.ContactInfo = contact
			return nil
		}
	}
	return sql.ErrNoRows
}

type mockProfileCourses struct {
	byStudent    map[string][]models.Course
	byInstructor map[string][]models.Course
}

func (m *mockProfileCourses) ListByStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	return m.byStudent[studentID], nil
}

func (m *mockProfileCourses) ListByInstructor(ctx context.Context, userID string) ([]models.Course, error) {
	return m.byInstructor[userID], nil
}

func TestProfileServiceStudentProfile(t *testing.T) {
	students := newMockStudentRepo(models.StudentDetail{Student: models.Student{ID: "s1", UserID: "u1"}, Name: "Ayu"})
	courses := &mockProfileCourses{byStudent: map[string][]models.Course{"s1": {{ID: "c1", Code: "MTH101"}}}}
	svc := NewProfileService(students, &mockTeacherRepo{}, courses, nil, nil)

	profile, err := svc.StudentProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ayu", profile.Name)
	assert.Len(t, profile.EnrolledCourses, 1)

	_, err = svc.StudentProfile(context.Background(), "u2")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestProfileServiceUpdateOverlaysContact(t *testing.T) {
	address := "Jl. Merdeka 1"
	students := newMockStudentRepo(models.StudentDetail{Student: models.Student{
		ID: "s1", UserID: "u1", ContactInfo: models.ContactInfo{Address: &address},
	}})
	svc := NewProfileService(students, &mockTeacherRepo{}, &mockProfileCourses{}, nil, nil)

	phone := "0812"
	profile, err := svc.UpdateStudentProfile(context.Background(), "u1", UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, profile.Phone)
	assert.Equal(t, "0812", *profile.Phone)
	require.NotNil(t, profile.Address)
	assert.Equal(t, address, *profile.Address)
	assert.NotNil(t, profile.EnrolledCourses)

	bad := "not a url"
	_, err = svc.UpdateStudentProfile(context.Background(), "u1", UpdateProfileRequest{ProfilePicture: &bad})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestProfileServiceTeacherProfile(t *testing.T) {
	teachers := &mockTeacherRepo{byUser: map[string]*models.TeacherDetail{
		"u9": {Teacher: models.Teacher{ID: "t1", UserID: "u9"}, Name: "Pak Budi"},
	}}
	courses := &mockProfileCourses{byInstructor: map[string][]models.Course{"u9": {{ID: "c1"}, {ID: "c2"}}}}
	svc := NewProfileService(newMockStudentRepo(), teachers, courses, nil, nil)

	profile, err := svc.TeacherProfile(context.Background(), "u9")
	require.NoError(t, err)
	assert.Len(t, profile.AssignedCourses, 2)

	_, err = svc.Teacher(context.Background(), "u1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
