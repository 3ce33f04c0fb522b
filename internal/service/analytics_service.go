package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/cache"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/grading"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

// feeCollectionMonths is the window of the monthly collection series.
const feeCollectionMonths = 6

type attendanceMarkSource interface {
	Marks(ctx context.Context, studentID string) ([]models.AttendanceMark, error)
}

type gradedResultSource interface {
	Graded(ctx context.Context, studentID string) ([]models.GradedResult, error)
}

type feeSource interface {
	All(ctx context.Context, studentID string) ([]models.Fee, error)
}

type studentByUser interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error)
}

// AnalyticsService provides read-optimised analytics with cache integration.
type AnalyticsService struct {
	attendance attendanceMarkSource
	results    gradedResultSource
	fees       feeSource
	students   studentByUser
	cache      *CacheService
	metrics    *MetricsService
	logger     *zap.Logger
	now        func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(attendance attendanceMarkSource, results gradedResultSource, fees feeSource, students studentByUser, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{
		attendance: attendance,
		results:    results,
		fees:       fees,
		students:   students,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Attendance returns attendance grouped by course across all students. The
// boolean indicates whether data originated from cache.
func (s *AnalyticsService) Attendance(ctx context.Context) ([]rollup.CourseAttendance, bool, error) {
	return Remember(ctx, s.cache, cache.Key("analytics", "attendance"), func(ctx context.Context) ([]rollup.CourseAttendance, error) {
		marks, err := s.attendance.Marks(ctx, "")
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load attendance")
		}
		return nonNil(rollup.AttendanceByCourse(courseMarks(marks))), nil
	})
}

// Performance returns the grade distribution and per-course GPA.
func (s *AnalyticsService) Performance(ctx context.Context) (*rollup.Performance, bool, error) {
	return Remember(ctx, s.cache, cache.Key("analytics", "performance"), func(ctx context.Context) (*rollup.Performance, error) {
		results, err := s.results.Graded(ctx, "")
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load results")
		}
		perf := rollup.Summarize(gradedRows(results), grading.Letters())
		return &perf, nil
	})
}

// Fees returns collection totals with the recent monthly series.
func (s *AnalyticsService) Fees(ctx context.Context) (*dto.FeeAnalytics, bool, error) {
	return Remember(ctx, s.cache, cache.Key("analytics", "fees"), func(ctx context.Context) (*dto.FeeAnalytics, error) {
		fees, err := s.fees.All(ctx, "")
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load fees")
		}
		rows := feeRows(fees)
		return &dto.FeeAnalytics{
			FeeStats:          rollup.Fees(rows),
			MonthlyCollection: rollup.FeesByMonth(rows, feeCollectionMonths, s.now()),
		}, nil
	})
}

// ForStudent returns the caller's attendance by course and GPA history.
// Student views are never cached.
func (s *AnalyticsService) ForStudent(ctx context.Context, userID string) (*dto.StudentAnalytics, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	marks, err := s.attendance.Marks(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance")
	}
	results, err := s.results.Graded(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load results")
	}

	history := make([]dto.GPAPoint, len(results))
	for i, r := range results {
		history[i] = dto.GPAPoint{Course: r.CourseName, GPA: r.GPA, Grade: r.Grade, Total: r.Total}
	}
	return &dto.StudentAnalytics{
		AttendanceStats: nonNil(rollup.AttendanceByCourse(courseMarks(marks))),
		GPAHistory:      history,
		OverallGPA:      rollup.GPA(gpaValues(results)),
	}, nil
}

// SystemMetrics returns the process instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	return s.metrics.Snapshot()
}
