package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]models.CourseDetail, error)
	ListByInstructor(ctx context.Context, userID string) ([]models.Course, error)
	Delete(ctx context.Context, id string) error
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)
}

type courseStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error)
}

type courseTeacherReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.TeacherDetail, error)
}

// CreateCourseRequest is the admin payload for a new course. InstructorID is
// the teacher's user id.
type CreateCourseRequest struct {
	Code         string  `json:"course_id" validate:"required,max=32"`
	Name         string  `json:"course_name" validate:"required,max=255"`
	CreditHours  int     `json:"credit_hours" validate:"required,min=1,max=10"`
	Semester     string  `json:"semester" validate:"required"`
	InstructorID *string `json:"instructor" validate:"omitempty,uuid"`
}

// AssignCourseRequest enrolls a student profile in a course.
type AssignCourseRequest struct {
	StudentID string `json:"studentId" validate:"required,uuid"`
	CourseID  string `json:"courseId" validate:"required,uuid"`
}

// CourseService manages courses and enrollment.
type CourseService struct {
	courses   courseRepository
	students  courseStudentReader
	teachers  courseTeacherReader
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseRepository, students courseStudentReader, teachers courseTeacherReader, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &CourseService{
		courses:   courses,
		students:  students,
		teachers:  teachers,
		audit:     audit,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns every course with its instructor name.
func (s *CourseService) List(ctx context.Context) ([]models.CourseDetail, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return nonNil(courses), nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	return course, nil
}

// Create registers a course. A supplied instructor must be a teacher.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid course payload")
	}
	if req.InstructorID != nil {
		if _, err := s.teachers.FindByUserID(ctx, *req.InstructorID); err != nil {
			return nil, lookupError(err, "instructor not found", "failed to load instructor")
		}
	}
	now := s.now().UTC()
	course := &models.Course{
		ID:           uuid.NewString(),
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:         strings.TrimSpace(req.Name),
		CreditHours:  req.CreditHours,
		Semester:     req.Semester,
		InstructorID: req.InstructorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "course code already exists")
		}
		return nil, appErrors.Internal(err, "failed to create course")
	}
	return course, nil
}

// Delete removes a course. Enrollments, attendance, results and timetable
// slots go with it.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		return lookupError(err, "course not found", "failed to delete course")
	}
	return nil
}

// Assign enrolls a student in a course.
func (s *CourseService) Assign(ctx context.Context, req AssignCourseRequest, actorID string, meta RequestMeta) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid enrollment payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	if _, err := s.Get(ctx, req.CourseID); err != nil {
		return nil, err
	}
	enrolled, err := s.courses.IsEnrolled(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "course already assigned")
	}
	enrollment := &models.Enrollment{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.courses.Enroll(ctx, enrollment); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "course already assigned")
		}
		return nil, appErrors.Internal(err, "failed to assign course")
	}
	recordAudit(ctx, s.audit, s.logger, actorID, models.AuditActionCourseAssign, "enrollment", enrollment.ID, req, meta)
	return enrollment, nil
}

// TeacherCourses lists the courses taught by a teacher user.
func (s *CourseService) TeacherCourses(ctx context.Context, userID string) ([]models.Course, error) {
	courses, err := s.courses.ListByInstructor(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	return nonNil(courses), nil
}

// EnrolledStudents lists students of a course the teacher instructs.
func (s *CourseService) EnrolledStudents(ctx context.Context, courseID, teacherUserID string) ([]models.StudentDetail, error) {
	if _, err := s.Owned(ctx, courseID, teacherUserID); err != nil {
		return nil, err
	}
	students, err := s.students.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list enrolled students")
	}
	return nonNil(students), nil
}

// Owned loads a course and checks that teacherUserID instructs it.
func (s *CourseService) Owned(ctx context.Context, courseID, teacherUserID string) (*models.Course, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID == nil || *course.InstructorID != teacherUserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is not assigned to you")
	}
	return course, nil
}
