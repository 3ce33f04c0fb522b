package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

type leaveService interface {
	Submit(ctx context.Context, userID string, req service.SubmitLeaveRequest) (*models.LeaveRequest, error)
	List(ctx context.Context, status *models.LeaveStatus) ([]models.LeaveRequestDetail, error)
	ForStudent(ctx context.Context, userID string) ([]models.LeaveRequestDetail, error)
	Review(ctx context.Context, id string, req service.ReviewLeaveRequest, reviewerID string, meta service.RequestMeta) (*models.LeaveRequestDetail, error)
}

// LeaveHandler exposes the leave request workflow.
type LeaveHandler struct {
	service leaveService
}

// NewLeaveHandler constructs the handler.
func NewLeaveHandler(svc leaveService) *LeaveHandler {
	return &LeaveHandler{service: svc}
}

// Submit godoc
// @Summary Submit a leave request
// @Tags Leave
// @Accept json
// @Produce json
// @Param payload body service.SubmitLeaveRequest true "Leave payload"
// @Success 201 {object} response.Envelope
// @Router /student/leave-request [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	var req service.SubmitLeaveRequest
	if !bindJSON(c, &req, "invalid leave payload") {
		return
	}
	leave, err := h.service.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, leave)
}

// Mine godoc
// @Summary Own leave requests
// @Tags Leave
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/leave-requests [get]
func (h *LeaveHandler) Mine(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	items, err := h.service.ForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// List godoc
// @Summary List leave requests
// @Tags Leave
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Success 200 {object} response.Envelope
// @Router /admin/leave-requests [get]
func (h *LeaveHandler) List(c *gin.Context) {
	var status *models.LeaveStatus
	if raw := c.Query("status"); raw != "" {
		s := models.LeaveStatus(raw)
		switch s {
		case models.LeavePending, models.LeaveApproved, models.LeaveRejected:
		default:
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown leave status"))
			return
		}
		status = &s
	}
	items, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// Review godoc
// @Summary Approve or reject a pending leave request
// @Tags Leave
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body service.ReviewLeaveRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/leave-requests/{id} [put]
func (h *LeaveHandler) Review(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.ReviewLeaveRequest
	if !bindJSON(c, &req, "invalid review payload") {
		return
	}
	leave, err := h.service.Review(c.Request.Context(), id, req, claims.UserID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, leave)
}
