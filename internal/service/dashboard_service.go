package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

type rowCounter interface {
	Count(ctx context.Context) (int, error)
}

type instructorLoad interface {
	ListByInstructor(ctx context.Context, userID string) ([]models.Course, error)
	CountStudentsByInstructor(ctx context.Context, userID string) (int, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students    studentByUser
	StudentRows rowCounter
	TeacherRows rowCounter
	CourseRows  rowCounter
	Instructors instructorLoad
	Attendance  attendanceMarkSource
	Results     gradedResultSource
	Fees        feeSource
	Logger      *zap.Logger
}

// DashboardService composes the per-role landing page statistics.
type DashboardService struct {
	students    studentByUser
	studentRows rowCounter
	teacherRows rowCounter
	courseRows  rowCounter
	instructors instructorLoad
	attendance  attendanceMarkSource
	results     gradedResultSource
	fees        feeSource
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students:    params.Students,
		studentRows: params.StudentRows,
		teacherRows: params.TeacherRows,
		courseRows:  params.CourseRows,
		instructors: params.Instructors,
		attendance:  params.Attendance,
		results:     params.Results,
		fees:        params.Fees,
		logger:      logger,
	}
}

// Admin returns entity counts and the school-wide fee rollup.
func (s *DashboardService) Admin(ctx context.Context) (*dto.AdminStats, error) {
	students, err := s.studentRows.Count(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count students")
	}
	teachers, err := s.teacherRows.Count(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count teachers")
	}
	courses, err := s.courseRows.Count(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count courses")
	}
	fees, err := s.fees.All(ctx, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load fees")
	}
	return &dto.AdminStats{
		TotalStudents: students,
		TotalTeachers: teachers,
		TotalCourses:  courses,
		Fees:          rollup.Fees(feeRows(fees)),
	}, nil
}

// Student returns the caller's attendance, fee and GPA rollups.
func (s *DashboardService) Student(ctx context.Context, userID string) (*dto.StudentStats, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	marks, err := s.attendance.Marks(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance")
	}
	fees, err := s.fees.All(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load fees")
	}
	results, err := s.results.Graded(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load results")
	}

	attendance := rollup.Attendance(attendanceStatuses(marks))
	return &dto.StudentStats{
		Attendance:      attendance,
		AttendanceLabel: rollup.AttendanceLabel(attendance.Percentage),
		Fees:            rollup.Fees(feeRows(fees)),
		OverallGPA:      rollup.GPA(gpaValues(results)),
	}, nil
}

// Teacher returns how many courses the caller teaches and how many distinct
// students are enrolled in them.
func (s *DashboardService) Teacher(ctx context.Context, userID string) (*dto.TeacherStats, error) {
	courses, err := s.instructors.ListByInstructor(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load courses")
	}
	students, err := s.instructors.CountStudentsByInstructor(ctx, userID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count students")
	}
	return &dto.TeacherStats{Courses: len(courses), Students: students}, nil
}
