package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type studentProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
	UpdateContact(ctx context.Context, id string, contact models.ContactInfo) error
}

type teacherProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.TeacherDetail, error)
	UpdateContact(ctx context.Context, id string, contact models.ContactInfo) error
}

type profileCourseRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Course, error)
	ListByInstructor(ctx context.Context, userID string) ([]models.Course, error)
}

// UpdateProfileRequest carries the self-editable contact fields. Omitted
// fields keep their stored value.
type UpdateProfileRequest struct {
	Phone          *string    `json:"phone" validate:"omitempty,max=32"`
	Address        *string    `json:"address" validate:"omitempty,max=255"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	ProfilePicture *string    `json:"profile_picture" validate:"omitempty,url"`
}

func (r UpdateProfileRequest) apply(contact models.ContactInfo) models.ContactInfo {
	if r.Phone != nil {
		contact.Phone = r.Phone
	}
	if r.Address != nil {
		contact.Address = r.Address
	}
	if r.DateOfBirth != nil {
		contact.DateOfBirth = r.DateOfBirth
	}
	if r.ProfilePicture != nil {
		contact.ProfilePicture = r.ProfilePicture
	}
	return contact
}

// ProfileService serves the student and teacher self-service profiles.
type ProfileService struct {
	students  studentProfileRepository
	teachers  teacherProfileRepository
	courses   profileCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(students studentProfileRepository, teachers teacherProfileRepository, courses profileCourseRepository, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &ProfileService{students: students, teachers: teachers, courses: courses, validator: validate, logger: logger}
}

// Student resolves the student profile of a user.
func (s *ProfileService) Student(ctx context.Context, userID string) (*models.StudentDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	return student, nil
}

// Teacher resolves the teacher profile of a user.
func (s *ProfileService) Teacher(ctx context.Context, userID string) (*models.TeacherDetail, error) {
	teacher, err := s.teachers.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "teacher profile not found", "failed to load teacher profile")
	}
	return teacher, nil
}

// StudentProfile returns the student's profile with enrolled courses.
func (s *ProfileService) StudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error) {
	student, err := s.Student(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load enrolled courses")
	}
	return &models.StudentProfile{StudentDetail: *student, EnrolledCourses: nonNil(courses)}, nil
}

// TeacherProfile returns the teacher's profile with assigned courses.
func (s *ProfileService) TeacherProfile(ctx context.Context, userID string) (*models.TeacherProfile, error) {
	teacher, err := s.Teacher(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListByInstructor(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load assigned courses")
	}
	return &models.TeacherProfile{TeacherDetail: *teacher, AssignedCourses: nonNil(courses)}, nil
}

// UpdateStudentProfile overlays the provided contact fields.
func (s *ProfileService) UpdateStudentProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.StudentProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid profile payload")
	}
	student, err := s.Student(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.students.UpdateContact(ctx, student.ID, req.apply(student.ContactInfo)); err != nil {
		return nil, lookupError(err, "student profile not found", "failed to update profile")
	}
	return s.StudentProfile(ctx, userID)
}

// UpdateTeacherProfile overlays the provided contact fields.
func (s *ProfileService) UpdateTeacherProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.TeacherProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid profile payload")
	}
	teacher, err := s.Teacher(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.teachers.UpdateContact(ctx, teacher.ID, req.apply(teacher.ContactInfo)); err != nil {
		return nil, lookupError(err, "teacher profile not found", "failed to update profile")
	}
	return s.TeacherProfile(ctx, userID)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
