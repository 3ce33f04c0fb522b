package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/response"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

type analyticsService interface {
	Attendance(ctx context.Context) ([]rollup.CourseAttendance, bool, error)
	Performance(ctx context.Context) (*rollup.Performance, bool, error)
	Fees(ctx context.Context) (*dto.FeeAnalytics, bool, error)
	ForStudent(ctx context.Context, userID string) (*dto.StudentAnalytics, error)
	SystemMetrics() models.SystemMetrics
}

// AnalyticsHandler exposes analytics endpoints.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Attendance returns attendance rolled up per course.
func (h *AnalyticsHandler) Attendance(c *gin.Context) {
	data, hit, err := h.analytics.Attendance(c.Request.Context())
	h.respond(c, data, hit, err)
}

// Performance returns the grade distribution and course GPA averages.
func (h *AnalyticsHandler) Performance(c *gin.Context) {
	data, hit, err := h.analytics.Performance(c.Request.Context())
	h.respond(c, data, hit, err)
}

// Fees returns fee totals and the recent monthly collection.
func (h *AnalyticsHandler) Fees(c *gin.Context) {
	data, hit, err := h.analytics.Fees(c.Request.Context())
	h.respond(c, data, hit, err)
}

// Student returns the caller's own attendance and GPA history.
func (h *AnalyticsHandler) Student(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	data, err := h.analytics.ForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

// System returns process level counters.
func (h *AnalyticsHandler) System(c *gin.Context) {
	response.OK(c, h.analytics.SystemMetrics())
}

func (h *AnalyticsHandler) respond(c *gin.Context, data interface{}, hit bool, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, data, nil, middleware.Meta(c))
}
