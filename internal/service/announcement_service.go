package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, error)
	GetByID(ctx context.Context, id string) (*models.AnnouncementDetail, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, announcement *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService handles announcement workflows.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// AnnouncementRequest describes the create and update payload.
type AnnouncementRequest struct {
	Title      string                      `json:"title" validate:"required,max=255"`
	Content    string                      `json:"content" validate:"required"`
	Audience   models.AnnouncementAudience `json:"target_audience" validate:"omitempty,audience"`
	Priority   models.AnnouncementPriority `json:"priority" validate:"omitempty,priority"`
	ExpiryDate *time.Time                  `json:"expiry_date"`
}

func (r AnnouncementRequest) normalised() AnnouncementRequest {
	r.Title = strings.TrimSpace(r.Title)
	if r.Audience == "" {
		r.Audience = models.AudienceAll
	}
	if r.Priority == "" {
		r.Priority = models.PriorityMedium
	}
	return r
}

// List returns every announcement including expired ones, highest priority
// first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.AnnouncementDetail, error) {
	rows, err := s.repo.List(ctx, models.AnnouncementFilter{})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list announcements")
	}
	return nonNil(rows), nil
}

// Feed returns the unexpired announcements addressed to everyone or to the
// role's audience.
func (s *AnnouncementService) Feed(ctx context.Context, role models.UserRole) ([]models.AnnouncementDetail, error) {
	audiences := []models.AnnouncementAudience{models.AudienceAll}
	if specific := models.AudienceFor(role); specific != models.AudienceAll {
		audiences = append(audiences, specific)
	}
	now := s.now().UTC()
	rows, err := s.repo.List(ctx, models.AnnouncementFilter{Audiences: audiences, Now: &now})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list announcements")
	}
	return nonNil(rows), nil
}

// Get returns an announcement by id.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.AnnouncementDetail, error) {
	ann, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "announcement not found", "failed to get announcement")
	}
	return ann, nil
}

// Create registers a new announcement authored by authorID.
func (s *AnnouncementService) Create(ctx context.Context, authorID string, req AnnouncementRequest) (*models.AnnouncementDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid payload")
	}
	req = req.normalised()
	announcement := &models.Announcement{
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   authorID,
		Audience:   req.Audience,
		Priority:   req.Priority,
		ExpiryDate: req.ExpiryDate,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Internal(err, "failed to create announcement")
	}
	s.logger.Info("announcement created", zap.String("id", announcement.ID), zap.String("audience", string(announcement.Audience)))
	return s.Get(ctx, announcement.ID)
}

// Update replaces the editable fields of an announcement.
func (s *AnnouncementService) Update(ctx context.Context, id string, req AnnouncementRequest) (*models.AnnouncementDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "invalid payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req = req.normalised()
	announcement := existing.Announcement
	announcement.Title = req.Title
	announcement.Content = req.Content
	announcement.Audience = req.Audience
	announcement.Priority = req.Priority
	announcement.ExpiryDate = req.ExpiryDate
	if err := s.repo.Update(ctx, &announcement); err != nil {
		return nil, lookupError(err, "announcement not found", "failed to update announcement")
	}
	return s.Get(ctx, id)
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "announcement not found", "failed to delete announcement")
	}
	return nil
}
