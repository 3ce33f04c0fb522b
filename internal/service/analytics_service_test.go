package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

type stubMarks struct {
	marks []models.AttendanceMark
	calls int
	err   error
}

func (s *stubMarks) Marks(ctx context.Context, studentID string) ([]models.AttendanceMark, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []models.AttendanceMark
	for _, m := range s.marks {
		if studentID == "" || m.StudentID == studentID {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubGraded struct {
	results []models.GradedResult
	calls   int
}

func (s *stubGraded) Graded(ctx context.Context, studentID string) ([]models.GradedResult, error) {
	s.calls++
	var out []models.GradedResult
	for _, r := range s.results {
		if studentID == "" || r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func newAnalyticsFixture(enabled bool) (*AnalyticsService, *stubMarks, *stubGraded, *mockFeeRepo) {
	marks := &stubMarks{marks: []models.AttendanceMark{
		{StudentID: fxStudentID, CourseName: "Physics", Status: models.AttendancePresent},
		{StudentID: fxStudentID, CourseName: "Physics", Status: models.AttendanceAbsent},
		{StudentID: "other", CourseName: "Algebra", Status: models.AttendancePresent},
	}}
	graded := &stubGraded{results: []models.GradedResult{
		{StudentID: fxStudentID, CourseName: "Physics", Grade: "A", GPA: 4, Total: 93},
		{StudentID: fxStudentID, CourseName: "Algebra", Grade: "C", GPA: 2, Total: 71},
		{StudentID: "other", CourseName: "Algebra", Grade: "B", GPA: 3, Total: 84},
	}}
	fees := newMockFeeRepo()
	created := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	fees.fees["f1"] = &models.Fee{ID: "f1", StudentID: fxStudentID, Amount: 300, Status: models.FeePaid, CreatedAt: created}
	fees.fees["f2"] = &models.Fee{ID: "f2", StudentID: fxStudentID, Amount: 100, Status: models.FeeUnpaid, CreatedAt: created}

	students := newMockStudentRepo(models.StudentDetail{Student: models.Student{ID: fxStudentID, UserID: fxStudentUserID}})
	cacheSvc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, zap.NewNop(), enabled)
	svc := NewAnalyticsService(marks, graded, fees, students, cacheSvc, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	return svc, marks, graded, fees
}

func TestAnalyticsServiceAttendanceCaching(t *testing.T) {
	svc, marks, _, _ := newAnalyticsFixture(true)
	ctx := context.Background()

	stats, hit, err := svc.Attendance(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, stats, 2)
	assert.Equal(t, "Algebra", stats[0].Course)
	assert.Equal(t, 50, stats[1].Percentage)

	cached, hit, err := svc.Attendance(ctx)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, marks.calls)
	assert.Equal(t, stats, cached)
}

func TestAnalyticsServiceAttendanceErrorPassthrough(t *testing.T) {
	svc, marks, _, _ := newAnalyticsFixture(false)
	marks.err = assert.AnError

	_, _, err := svc.Attendance(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAnalyticsServiceCacheInvalidationForcesReload(t *testing.T) {
	svc, _, graded, _ := newAnalyticsFixture(true)
	ctx := context.Background()

	_, _, err := svc.Performance(ctx)
	require.NoError(t, err)
	svc.cache.InvalidateAnalytics(ctx)

	perf, hit, err := svc.Performance(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, graded.calls)
	assert.Equal(t, 3, perf.TotalResults)
	assert.Equal(t, 3.0, perf.AverageGPA)
	assert.Equal(t, 1, perf.GradeDistribution["A"])
	assert.Equal(t, 0, perf.GradeDistribution["F"])
	require.Len(t, perf.CoursePerformance, 2)
	assert.Equal(t, rollup.CourseGPA{Course: "Algebra", AverageGPA: 2.5, StudentCount: 2}, perf.CoursePerformance[0])
}

func TestAnalyticsServiceFees(t *testing.T) {
	svc, _, _, _ := newAnalyticsFixture(false)

	fees, hit, err := svc.Fees(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 400.0, fees.Total)
	assert.Equal(t, 100.0, fees.Unpaid)
	assert.Equal(t, 75.0, fees.CollectionRate)
	assert.Equal(t, rollup.FeePending, fees.Status)
	assert.Equal(t, []rollup.MonthlyFees{{Month: "2024-05", Total: 400, Paid: 300}}, fees.MonthlyCollection)
}

func TestAnalyticsServiceForStudent(t *testing.T) {
	svc, _, _, _ := newAnalyticsFixture(true)

	view, err := svc.ForStudent(context.Background(), fxStudentUserID)
	require.NoError(t, err)
	require.Len(t, view.AttendanceStats, 1)
	assert.Equal(t, "Physics", view.AttendanceStats[0].Course)
	assert.Len(t, view.GPAHistory, 2)
	assert.Equal(t, 3.0, view.OverallGPA)

	_, err = svc.ForStudent(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAnalyticsServiceForStudentWithoutData(t *testing.T) {
	svc, marks, graded, _ := newAnalyticsFixture(false)
	marks.marks = nil
	graded.results = nil

	view, err := svc.ForStudent(context.Background(), fxStudentUserID)
	require.NoError(t, err)
	assert.Empty(t, view.AttendanceStats)
	assert.NotNil(t, view.AttendanceStats)
	assert.Zero(t, view.OverallGPA)
}

func TestAnalyticsServiceSystemMetricsWithoutCollector(t *testing.T) {
	svc, _, _, _ := newAnalyticsFixture(false)
	assert.Equal(t, models.SystemMetrics{}, svc.SystemMetrics())
}
