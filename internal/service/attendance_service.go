package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

type attendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	Exists(ctx context.Context, studentID, courseID string, date models.Date) (bool, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error)
	Marks(ctx context.Context, studentID string) ([]models.AttendanceMark, error)
}

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
}

type courseLookup interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// MarkAttendanceRequest is the teacher payload for one attendance mark.
type MarkAttendanceRequest struct {
	StudentID string                  `json:"student_id" validate:"required,uuid"`
	CourseID  string                  `json:"course_id" validate:"required,uuid"`
	Date      models.Date             `json:"date" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,attendance_status"`
}

// AttendanceService records and summarises attendance.
type AttendanceService struct {
	repo      attendanceRepository
	students  studentLookup
	courses   courseLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, students studentLookup, courses courseLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &AttendanceService{
		repo:      repo,
		students:  students,
		courses:   courses,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Mark records one attendance status. Only the course instructor may mark
// and a (student, course, date) triple is recorded once.
func (s *AttendanceService) Mark(ctx context.Context, teacherUserID string, req MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid attendance payload")
	}
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	if course.InstructorID == nil || *course.InstructorID != teacherUserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is not assigned to you")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}

	date := req.Date
	exists, err := s.repo.Exists(ctx, req.StudentID, req.CourseID, date)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check attendance")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "attendance already marked for this student on this date")
	}

	record := &models.Attendance{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      date,
		Status:    req.Status,
		MarkedBy:  teacherUserID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "attendance already marked for this student on this date")
		}
		return nil, appErrors.Internal(err, "failed to mark attendance")
	}
	s.cache.InvalidateAnalytics(ctx)
	return record, nil
}

// ForStudent lists the attendance of the student behind userID with its
// summary.
func (s *AttendanceService) ForStudent(ctx context.Context, userID string) (*dto.StudentAttendance, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	records, err := s.repo.List(ctx, models.AttendanceFilter{StudentID: student.ID})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list attendance")
	}
	statuses := make([]string, len(records))
	for i, r := range records {
		statuses[i] = string(r.Status)
	}
	summary := rollup.Attendance(statuses)
	return &dto.StudentAttendance{
		Records: nonNil(records),
		Summary: summary,
		Label:   rollup.AttendanceLabel(summary.Percentage),
	}, nil
}

// List returns attendance matching the filter.
func (s *AttendanceService) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list attendance")
	}
	return nonNil(records), nil
}
