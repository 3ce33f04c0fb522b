package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context) ([]models.CourseDetail, error)
	Create(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, req service.AssignCourseRequest, actorID string, meta service.RequestMeta) (*models.Enrollment, error)
	TeacherCourses(ctx context.Context, userID string) ([]models.Course, error)
	EnrolledStudents(ctx context.Context, courseID, teacherUserID string) ([]models.StudentDetail, error)
}

// CourseHandler exposes course catalogue and enrollment endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if !bindJSON(c, &req, "invalid course payload") {
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path string true "Course ID"
// @Success 204
// @Router /admin/courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Assign godoc
// @Summary Enroll a student in a course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.AssignCourseRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/assign-course [post]
func (h *CourseHandler) Assign(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	var req service.AssignCourseRequest
	if !bindJSON(c, &req, "invalid enrollment payload") {
		return
	}
	enrollment, err := h.service.Assign(c.Request.Context(), req, claims.UserID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Mine godoc
// @Summary Courses taught by the caller
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/courses [get]
func (h *CourseHandler) Mine(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	courses, err := h.service.TeacherCourses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// EnrolledStudents godoc
// @Summary Students enrolled in one of the caller's courses
// @Tags Courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/enrolled-students/{courseId} [get]
func (h *CourseHandler) EnrolledStudents(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	students, err := h.service.EnrolledStudents(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}
