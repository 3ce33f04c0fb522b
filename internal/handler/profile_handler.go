package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
	"github.com/noah-isme/sis-api/pkg/response"
)

type profileService interface {
	StudentProfile(ctx context.Context, userID string) (*models.StudentProfile, error)
	TeacherProfile(ctx context.Context, userID string) (*models.TeacherProfile, error)
	UpdateStudentProfile(ctx context.Context, userID string, req service.UpdateProfileRequest) (*models.StudentProfile, error)
	UpdateTeacherProfile(ctx context.Context, userID string, req service.UpdateProfileRequest) (*models.TeacherProfile, error)
}

// ProfileHandler serves the caller's own student or teacher profile.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(svc profileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// Student godoc
// @Summary Own student profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/profile [get]
func (h *ProfileHandler) Student(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	profile, err := h.service.StudentProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// UpdateStudent godoc
// @Summary Update own student contact details
// @Tags Profiles
// @Accept json
// @Produce json
// @Param payload body service.UpdateProfileRequest true "Contact fields"
// @Success 200 {object} response.Envelope
// @Router /student/profile [put]
func (h *ProfileHandler) UpdateStudent(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	var req service.UpdateProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}
	profile, err := h.service.UpdateStudentProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// Teacher godoc
// @Summary Own teacher profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/profile [get]
func (h *ProfileHandler) Teacher(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	profile, err := h.service.TeacherProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// UpdateTeacher godoc
// @Summary Update own teacher contact details
// @Tags Profiles
// @Accept json
// @Produce json
// @Param payload body service.UpdateProfileRequest true "Contact fields"
// @Success 200 {object} response.Envelope
// @Router /teacher/profile [put]
func (h *ProfileHandler) UpdateTeacher(c *gin.Context) {
	claims := mustClaims(c)
	if claims == nil {
		return
	}
	var req service.UpdateProfileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}
	profile, err := h.service.UpdateTeacherProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}
