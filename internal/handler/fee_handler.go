package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type feeService interface {
	Create(ctx context.Context, req service.CreateFeeRequest) (*models.Fee, error)
	List(ctx context.Context) ([]models.FeeDetail, error)
	UpdateStatus(ctx context.Context, id string, req service.UpdateFeeStatusRequest, actorID string, meta service.RequestMeta) (*models.Fee, error)
	Delete(ctx context.Context, id string) error
	ForStudent(ctx context.Context, userID string) (*dto.StudentFees, error)
}

// FeeHandler exposes fee endpoints.
type FeeHandler struct {
	service feeService
}

// NewFeeHandler constructs the handler.
func NewFeeHandler(svc feeService) *FeeHandler {
	return &FeeHandler{service: svc}
}

// Create godoc
// @Summary Create fee
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body service.CreateFeeRequest true "Fee payload"
// @Success 201 {object} response.Envelope
// @Router /admin/fees [post]
func (h *FeeHandler) Create(c *gin.Context) {
	var req service.CreateFeeRequest
	if !bindJSON(c, &req, "invalid fee payload") {
		return
	}
	fee, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, fee)
}

// List godoc
// @Summary List fees
// @Tags Fees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/fees [get]
func (h *FeeHandler) List(c *gin.Context) {
	fees, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fees)
}

// UpdateStatus godoc
// @Summary Mark fee paid or unpaid
// @Tags Fees
// @Accept json
// @Produce json
// @Param id path string true "Fee ID"
// @Param payload body service.UpdateFeeStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /admin/fees/{id} [put]
func (h *FeeHandler) UpdateStatus(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateFeeStatusRequest
	if !bindJSON(c, &req, "invalid fee status payload") {
		return
	}
	fee, err := h.service.UpdateStatus(c.Request.Context(), id, req, claims.UserID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fee)
}

// Delete godoc
// @Summary Delete fee
// @Tags Fees
// @Param id path string true "Fee ID"
// @Success 204
// @Router /admin/fees/{id} [delete]
func (h *FeeHandler) Delete(c *gin.Context) {
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

// Mine godoc
// @Summary Own fees with summary
// @Tags Fees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/fees [get]
func (h *FeeHandler) Mine(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	fees, err := h.service.ForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fees)
}
