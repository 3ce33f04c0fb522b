package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type timetableService interface {
	List(ctx context.Context) ([]models.TimetableDetail, error)
	Create(ctx context.Context, req service.TimetableRequest) (*models.TimetableDetail, error)
	Update(ctx context.Context, id string, req service.TimetableRequest) (*models.TimetableDetail, error)
	Delete(ctx context.Context, id string) error
	ForTeacher(ctx context.Context, userID string) ([]models.TimetableDetail, error)
	ForStudent(ctx context.Context, userID string) ([]models.TimetableDetail, error)
}

// TimetableHandler exposes the weekly timetable.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// List godoc
// @Summary Full timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	slots, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, slots)
}

// Create godoc
// @Summary Add a timetable slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.TimetableRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Router /admin/timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req service.TimetableRequest
	if !bindJSON(c, &req, "invalid timetable payload") {
		return
	}
	slot, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update godoc
// @Summary Replace a timetable slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body service.TimetableRequest true "Slot payload"
// @Success 200 {object} response.Envelope
// @Router /admin/timetable/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.TimetableRequest
	if !bindJSON(c, &req, "invalid timetable payload") {
		return
	}
	slot, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, slot)
}

// Delete godoc
// @Summary Remove a timetable slot
// @Tags Timetable
// @Param id path string true "Slot ID"
// @Success 204
// @Router /admin/timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
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

// Teacher godoc
// @Summary Caller's teaching slots
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/timetable [get]
func (h *TimetableHandler) Teacher(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	slots, err := h.service.ForTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, slots)
}

// Student godoc
// @Summary Slots of the caller's enrolled courses
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/timetable [get]
func (h *TimetableHandler) Student(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	slots, err := h.service.ForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, slots)
}
