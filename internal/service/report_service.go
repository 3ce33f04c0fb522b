package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/repository"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

type reportCounts interface {
	EnrollmentCounts(ctx context.Context) (map[string]int, error)
	ResultCounts(ctx context.Context) (map[string]int, error)
	TeacherLoads(ctx context.Context) (map[string]repository.TeacherLoad, error)
}

type studentLister interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
}

type teacherLister interface {
	List(ctx context.Context) ([]models.TeacherDetail, error)
}

type instructorCourses interface {
	ListByInstructor(ctx context.Context, userID string) ([]models.Course, error)
}

// ReportServiceParams groups constructor dependencies.
type ReportServiceParams struct {
	Counts     reportCounts
	Students   studentLister
	Teachers   teacherLister
	Courses    instructorCourses
	Attendance attendanceMarkSource
	Fees       feeSource
	Logger     *zap.Logger
}

// ReportService builds the admin per-teacher and per-student reports.
type ReportService struct {
	counts     reportCounts
	students   studentLister
	teachers   teacherLister
	courses    instructorCourses
	attendance attendanceMarkSource
	fees       feeSource
	logger     *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(params ReportServiceParams) *ReportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		counts:     params.Counts,
		students:   params.Students,
		teachers:   params.Teachers,
		courses:    params.Courses,
		attendance: params.Attendance,
		fees:       params.Fees,
		logger:     logger,
	}
}

// Teachers lists every teacher with their course load and distinct students.
func (s *ReportService) Teachers(ctx context.Context) ([]dto.TeacherReport, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list teachers")
	}
	loads, err := s.counts.TeacherLoads(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load teacher loads")
	}

	out := make([]dto.TeacherReport, 0, len(teachers))
	for _, t := range teachers {
		courses, err := s.courses.ListByInstructor(ctx, t.UserID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load teacher courses")
		}
		load := loads[t.UserID]
		out = append(out, dto.TeacherReport{
			ID:            t.ID,
			Name:          t.Name,
			Email:         t.Email,
			TeacherNumber: t.TeacherNumber,
			Department:    t.Department,
			Courses:       load.Courses,
			Students:      load.Students,
			CourseDetails: nonNil(courses),
		})
	}
	return out, nil
}

// Students lists every student with enrollment, attendance, result and fee
// rollups.
func (s *ReportService) Students(ctx context.Context) ([]dto.StudentReport, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list students")
	}
	enrolled, err := s.counts.EnrollmentCounts(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count enrollments")
	}
	graded, err := s.counts.ResultCounts(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to count results")
	}
	marks, err := s.attendance.Marks(ctx, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance")
	}
	fees, err := s.fees.All(ctx, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load fees")
	}

	statuses := make(map[string][]string)
	for _, m := range marks {
		statuses[m.StudentID] = append(statuses[m.StudentID], string(m.Status))
	}
	feesByStudent := make(map[string][]rollup.Fee)
	for _, f := range fees {
		feesByStudent[f.StudentID] = append(feesByStudent[f.StudentID], rollup.Fee{Amount: f.Amount, Status: string(f.Status), CreatedAt: f.CreatedAt})
	}

	out := make([]dto.StudentReport, 0, len(students))
	for _, st := range students {
		out = append(out, dto.StudentReport{
			ID:              st.ID,
			Name:            st.Name,
			Email:           st.Email,
			StudentNumber:   st.StudentNumber,
			RollNumber:      st.RollNumber,
			Department:      st.Department,
			Semester:        st.Semester,
			Section:         st.Section,
			EnrolledCourses: enrolled[st.ID],
			Attendance:      rollup.Attendance(statuses[st.ID]),
			ResultsCount:    graded[st.ID],
			Fees:            rollup.Fees(feesByStudent[st.ID]),
		})
	}
	return out, nil
}
