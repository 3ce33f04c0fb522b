package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sis-api/internal/models"
)

const announcementSelect = `SELECT a.id, a.title, a.content, a.author_id, a.target_audience, a.priority, a.expiry_date, a.created_at, a.updated_at,
u.full_name AS author_name
FROM announcements a JOIN users u ON u.id = a.author_id`

// AnnouncementRepository provides persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository creates the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements ordered by priority (high first) then newest.
// Audiences restricts target_audience; Now hides rows that expired before it.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, error) {
	var cond conditions
	if len(filter.Audiences) > 0 {
		values := make([]string, 0, len(filter.Audiences))
		for _, a := range filter.Audiences {
			values = append(values, string(a))
		}
		cond.add("a.target_audience = ANY(%s)", pq.Array(values))
	}
	if filter.Now != nil {
		cond.add("(a.expiry_date IS NULL OR a.expiry_date >= %s)", *filter.Now)
	}
	query := announcementSelect + cond.where() + `
ORDER BY CASE a.priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC, a.created_at DESC`

	var items []models.AnnouncementDetail
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return items, nil
}

// GetByID returns an announcement by identifier.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.AnnouncementDetail, error) {
	var item models.AnnouncementDetail
	if err := r.db.GetContext(ctx, &item, announcementSelect+` WHERE a.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return &item, nil
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = now
	}
	announcement.UpdatedAt = now
	const query = `INSERT INTO announcements (id, title, content, author_id, target_audience, priority, expiry_date, created_at, updated_at)
VALUES (:id, :title, :content, :author_id, :target_audience, :priority, :expiry_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies an existing announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()
	const query = `UPDATE announcements SET title = :title, content = :content, target_audience = :target_audience,
priority = :priority, expiry_date = :expiry_date, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, announcement)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return expectAffected(res)
}
