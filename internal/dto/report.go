package dto

import (
	"time"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

// ExportRequest captures POST /admin/exports payload.
type ExportRequest struct {
	Type     models.ReportType `json:"type" validate:"required,oneof=students teachers fees"`
	Format   string            `json:"format" validate:"required,oneof=csv pdf xlsx"`
	Semester string            `json:"semester"`
	Status   string            `json:"status" validate:"omitempty,fee_status"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse exposes job progress metadata.
type ExportStatusResponse struct {
	ID          string              `json:"id"`
	Type        models.ReportType   `json:"type"`
	Status      models.ReportStatus `json:"status"`
	Progress    int                 `json:"progress"`
	DownloadURL *string             `json:"downloadUrl,omitempty"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
	Error       *string             `json:"error,omitempty"`
}

// TeacherReport is one row of the admin teacher report.
type TeacherReport struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	TeacherNumber string          `json:"teacher_id"`
	Department    string          `json:"department"`
	Courses       int             `json:"courses"`
	Students      int             `json:"students"`
	CourseDetails []models.Course `json:"courseDetails"`
}

// StudentReport is one row of the admin student report.
type StudentReport struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	StudentNumber   string                 `json:"student_id"`
	RollNumber      string                 `json:"roll_number"`
	Department      string                 `json:"department"`
	Semester        int                    `json:"semester"`
	Section         string                 `json:"section"`
	EnrolledCourses int                    `json:"enrolledCourses"`
	Attendance      rollup.AttendanceStats `json:"attendance"`
	ResultsCount    int                    `json:"resultsCount"`
	Fees            rollup.FeeStats        `json:"fees"`
}
