package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

type attendanceService interface {
	Mark(ctx context.Context, teacherUserID string, req service.MarkAttendanceRequest) (*models.Attendance, error)
	ForStudent(ctx context.Context, userID string) (*dto.StudentAttendance, error)
	List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error)
}

// AttendanceHandler exposes attendance marking and listing.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Mark godoc
// @Summary Mark attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /teacher/attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	var req service.MarkAttendanceRequest
	if !bindJSON(c, &req, "invalid attendance payload") {
		return
	}
	record, err := h.service.Mark(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Mine godoc
// @Summary Own attendance with summary
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/attendance [get]
func (h *AttendanceHandler) Mine(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	attendance, err := h.service.ForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, attendance)
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param student_id query string false "Student profile ID"
// @Param course_id query string false "Course ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /admin/attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := models.AttendanceFilter{
		StudentID: c.Query("student_id"),
		CourseID:  c.Query("course_id"),
	}
	var err error
	if filter.DateFrom, err = parseDateQuery(c, "from"); err != nil {
		response.Error(c, err)
		return
	}
	if filter.DateTo, err = parseDateQuery(c, "to"); err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, records)
}

func parseDateQuery(c *gin.Context, key string) (*models.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, appErrors.Invalid(err, key+" must be YYYY-MM-DD")
	}
	day := models.DateOf(parsed)
	return &day, nil
}
