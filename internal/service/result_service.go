package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/grading"
)

type resultRepository interface {
	Get(ctx context.Context, studentID, courseID string) (*models.Result, error)
	Upsert(ctx context.Context, result *models.Result) error
	ListByCourse(ctx context.Context, courseID string) ([]models.ResultDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.ResultDetail, error)
}

// SubmitResultRequest carries a partial score submission. Derived fields
// are never read from input.
type SubmitResultRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	CourseID  string `json:"course_id" validate:"required,uuid"`
	grading.Patch
}

// ResultService records course results and derives their grades.
type ResultService struct {
	repo      resultRepository
	students  studentLookup
	courses   courseLookup
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs a ResultService.
func NewResultService(repo resultRepository, students studentLookup, courses courseLookup, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &ResultService{repo: repo, students: students, courses: courses, cache: cache, validator: validate, logger: logger}
}

// Submit merges the supplied scores into the stored result for the pair,
// recomputes the derived fields and writes the row.
func (s *ResultService) Submit(ctx context.Context, teacherUserID string, req SubmitResultRequest) (*models.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid result payload")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	if course.InstructorID == nil || *course.InstructorID != teacherUserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is not assigned to you")
	}

	result, err := s.repo.Get(ctx, req.StudentID, req.CourseID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result = &models.Result{StudentID: req.StudentID, CourseID: req.CourseID}
	case err != nil:
		return nil, appErrors.Internal(err, "failed to load result")
	}

	scores := grading.Merge(result.Scores, req.Patch)
	if err := grading.Validate(scores); err != nil {
		return nil, appErrors.Invalid(err, err.Error())
	}
	result.Apply(grading.Compute(scores))

	if err := s.repo.Upsert(ctx, result); err != nil {
		return nil, appErrors.Internal(err, "failed to save result")
	}
	s.logger.Debug("result recorded",
		zap.String("student_id", result.StudentID),
		zap.String("course_id", result.CourseID),
		zap.String("grade", result.Grade))
	s.cache.InvalidateAnalytics(ctx)
	return result, nil
}

// ForCourse lists the results of a course the teacher instructs.
func (s *ResultService) ForCourse(ctx context.Context, courseID, teacherUserID string) ([]models.ResultDetail, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, lookupError(err, "course not found", "failed to load course")
	}
	if course.InstructorID == nil || *course.InstructorID != teacherUserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course is not assigned to you")
	}
	results, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list results")
	}
	return nonNil(results), nil
}

// ForStudent lists the results of the student behind userID.
func (s *ResultService) ForStudent(ctx context.Context, userID string) ([]models.ResultDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	results, err := s.repo.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list results")
	}
	return nonNil(results), nil
}
