package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type resultService interface {
	Submit(ctx context.Context, teacherUserID string, req service.SubmitResultRequest) (*models.Result, error)
	ForCourse(ctx context.Context, courseID, teacherUserID string) ([]models.ResultDetail, error)
	ForStudent(ctx context.Context, userID string) ([]models.ResultDetail, error)
}

// ResultHandler exposes course result endpoints.
type ResultHandler struct {
	service resultService
}

// NewResultHandler constructs the handler.
func NewResultHandler(svc resultService) *ResultHandler {
	return &ResultHandler{service: svc}
}

// Submit godoc
// @Summary Submit or amend a course result
// @Description Creates the result on first submission and merges marks afterwards
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.SubmitResultRequest true "Result payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/results [post]
func (h *ResultHandler) Submit(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	var req service.SubmitResultRequest
	if !bindJSON(c, &req, "invalid result payload") {
		return
	}
	result, err := h.service.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// ForCourse godoc
// @Summary Results of one of the caller's courses
// @Tags Results
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /teacher/results/{courseId} [get]
func (h *ResultHandler) ForCourse(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	courseID, ok := pathID(c, "courseId")
	if !ok {
		return
	}
	results, err := h.service.ForCourse(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, results)
}

// Mine godoc
// @Summary Own results
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/results [get]
func (h *ResultHandler) Mine(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	results, err := h.service.ForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, results)
}
