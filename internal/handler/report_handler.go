package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/pkg/response"
)

type reportService interface {
	Teachers(ctx context.Context) ([]dto.TeacherReport, error)
	Students(ctx context.Context) ([]dto.StudentReport, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Teachers godoc
// @Summary Teacher workload report
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/reports/teachers [get]
func (h *ReportHandler) Teachers(c *gin.Context) {
	rows, err := h.reports.Teachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rows)
}

// Students godoc
// @Summary Student progress report
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/reports/students [get]
func (h *ReportHandler) Students(c *gin.Context) {
	rows, err := h.reports.Students(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rows)
}
