package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

const leaveRequestsLink = "/student/leave-requests"

type leaveRepository interface {
	Create(ctx context.Context, leave *models.LeaveRequest) error
	FindByID(ctx context.Context, id string) (*models.LeaveRequestDetail, error)
	List(ctx context.Context, status *models.LeaveStatus, studentID string) ([]models.LeaveRequestDetail, error)
	Review(ctx context.Context, review models.LeaveReview) (bool, error)
}

type notifier interface {
	Notify(ctx context.Context, in NewNotification) (*models.Notification, error)
}

// SubmitLeaveRequest is the student payload for a leave request.
type SubmitLeaveRequest struct {
	StartDate models.Date `json:"start_date" validate:"required"`
	EndDate   models.Date `json:"end_date" validate:"required"`
	Reason    string      `json:"reason" validate:"required,max=1000"`
}

// ReviewLeaveRequest is the admin decision on a pending request.
type ReviewLeaveRequest struct {
	Status  models.LeaveStatus `json:"status" validate:"required,leave_decision"`
	Remarks *string            `json:"admin_remarks" validate:"omitempty,max=1000"`
}

// LeaveService runs the leave request workflow: pending requests are
// reviewed once into approved or rejected.
type LeaveService struct {
	repo      leaveRepository
	students  studentLookup
	notifier  notifier
	audit     auditWriter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLeaveService constructs a LeaveService.
func NewLeaveService(repo leaveRepository, students studentLookup, notifier notifier, audit auditWriter, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &LeaveService{
		repo:      repo,
		students:  students,
		notifier:  notifier,
		audit:     audit,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit files a pending request for the student behind userID.
func (s *LeaveService) Submit(ctx context.Context, userID string, req SubmitLeaveRequest) (*models.LeaveRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid leave request")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not be before start_date")
	}
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	now := s.now().UTC()
	leave := &models.LeaveRequest{
		ID:        uuid.NewString(),
		StudentID: student.ID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    models.LeavePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, leave); err != nil {
		return nil, appErrors.Internal(err, "failed to submit leave request")
	}
	return leave, nil
}

// List returns every request, newest first, optionally filtered by status.
func (s *LeaveService) List(ctx context.Context, status *models.LeaveStatus) ([]models.LeaveRequestDetail, error) {
	items, err := s.repo.List(ctx, status, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list leave requests")
	}
	return nonNil(items), nil
}

// ForStudent returns the requests of the student behind userID.
func (s *LeaveService) ForStudent(ctx context.Context, userID string) ([]models.LeaveRequestDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	items, err := s.repo.List(ctx, nil, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list leave requests")
	}
	return nonNil(items), nil
}

// Review approves or rejects a pending request and notifies the student.
// Decided requests are never reviewed again.
func (s *LeaveService) Review(ctx context.Context, id string, req ReviewLeaveRequest, reviewerID string, meta RequestMeta) (*models.LeaveRequestDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid leave decision")
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "leave request not found", "failed to load leave request")
	}
	if !current.Status.CanTransition(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("leave request is already %s", current.Status))
	}

	applied, err := s.repo.Review(ctx, models.LeaveReview{
		ID:         id,
		Status:     req.Status,
		Remarks:    req.Remarks,
		ReviewerID: reviewerID,
		ReviewedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to review leave request")
	}
	if !applied {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "leave request was already reviewed")
	}

	if _, err := s.notifier.Notify(ctx, leaveDecisionNotification(current, req.Status)); err != nil {
		s.logger.Warn("failed to notify leave decision", zap.String("leave_id", id), zap.Error(err))
	}
	recordAudit(ctx, s.audit, s.logger, reviewerID, models.AuditActionLeaveReview, "leave_request", id, req, meta)

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "leave request not found", "failed to load leave request")
	}
	return updated, nil
}

func leaveDecisionNotification(leave *models.LeaveRequestDetail, status models.LeaveStatus) NewNotification {
	kind := models.NotificationWarning
	if status == models.LeaveApproved {
		kind = models.NotificationSuccess
	}
	message := fmt.Sprintf("Your leave request from %s to %s has been %s.",
		leave.StartDate, leave.EndDate, status)
	return NewNotification{
		UserID:  leave.StudentUserID,
		Title:   fmt.Sprintf("Leave Request %s", status),
		Message: message,
		Type:    kind,
		Link:    leaveRequestsLink,
	}
}
