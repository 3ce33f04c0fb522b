package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/database"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

type feeRepository interface {
	Create(ctx context.Context, fee *models.Fee) error
	FindByID(ctx context.Context, id string) (*models.Fee, error)
	List(ctx context.Context, studentID string) ([]models.FeeDetail, error)
	All(ctx context.Context, studentID string) ([]models.Fee, error)
	UpdateStatus(ctx context.Context, id string, status models.FeeStatus) error
	Delete(ctx context.Context, id string) error
}

// CreateFeeRequest bills a student. StudentUserID is the student's user id.
type CreateFeeRequest struct {
	StudentUserID string      `json:"student_id" validate:"required,uuid"`
	Amount        float64     `json:"amount" validate:"required,gt=0"`
	Semester      string      `json:"semester" validate:"required"`
	Description   string      `json:"description" validate:"max=500"`
	DueDate       models.Date `json:"due_date" validate:"required"`
}

// UpdateFeeStatusRequest flips a fee between Paid and Unpaid.
type UpdateFeeStatusRequest struct {
	Status models.FeeStatus `json:"status" validate:"required,fee_status"`
}

// FeeService manages student fees.
type FeeService struct {
	repo      feeRepository
	students  studentLookup
	audit     auditWriter
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewFeeService constructs a FeeService.
func NewFeeService(repo feeRepository, students studentLookup, audit auditWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &FeeService{
		repo:      repo,
		students:  students,
		audit:     audit,
		cache:     cache,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Create bills the student behind StudentUserID. New fees start Unpaid.
func (s *FeeService) Create(ctx context.Context, req CreateFeeRequest) (*models.Fee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid fee payload")
	}
	student, err := s.students.FindByUserID(ctx, req.StudentUserID)
	if err != nil {
		return nil, lookupError(err, "student not found", "failed to load student")
	}
	now := s.now().UTC()
	fee := &models.Fee{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		Amount:      req.Amount,
		Semester:    req.Semester,
		Description: strings.TrimSpace(req.Description),
		DueDate:     req.DueDate,
		Status:      models.FeeUnpaid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, fee); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to create fee")
	}
	s.cache.InvalidateAnalytics(ctx)
	return fee, nil
}

// List returns every fee, newest first, with the student's name and email.
func (s *FeeService) List(ctx context.Context) ([]models.FeeDetail, error) {
	fees, err := s.repo.List(ctx, "")
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list fees")
	}
	return nonNil(fees), nil
}

// UpdateStatus sets a fee's status and returns the updated row.
func (s *FeeService) UpdateStatus(ctx context.Context, id string, req UpdateFeeStatusRequest, actorID string, meta RequestMeta) (*models.Fee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid fee status")
	}
	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, lookupError(err, "fee not found", "failed to update fee")
	}
	fee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "fee not found", "failed to load fee")
	}
	recordAudit(ctx, s.audit, s.logger, actorID, models.AuditActionFeeStatus, "fee", id, req, meta)
	s.cache.InvalidateAnalytics(ctx)
	return fee, nil
}

// Delete removes a fee.
func (s *FeeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "fee not found", "failed to delete fee")
	}
	s.cache.InvalidateAnalytics(ctx)
	return nil
}

// ForStudent lists the fees of the student behind userID with their summary.
func (s *FeeService) ForStudent(ctx context.Context, userID string) (*dto.StudentFees, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "student profile not found", "failed to load student profile")
	}
	fees, err := s.repo.All(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list fees")
	}
	return &dto.StudentFees{Fees: nonNil(fees), Summary: rollup.Fees(feeRows(fees))}, nil
}
