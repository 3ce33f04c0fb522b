package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

const leaveDetailSelect = `SELECT l.id, l.student_id, l.start_date, l.end_date, l.reason, l.status, l.reviewed_by, l.review_date,
l.admin_remarks, l.created_at, l.updated_at, s.user_id AS student_user_id, u.full_name AS student_name, u.email AS student_email,
rv.full_name AS reviewer_name
FROM leave_requests l
JOIN students s ON s.id = l.student_id
JOIN users u ON u.id = s.user_id
LEFT JOIN users rv ON rv.id = l.reviewed_by`

// LeaveRepository persists leave requests and their review.
type LeaveRepository struct {
	db *sqlx.DB
}

// NewLeaveRepository constructs a LeaveRepository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// Create inserts a pending leave request.
func (r *LeaveRepository) Create(ctx context.Context, leave *models.LeaveRequest) error {
	if leave.ID == "" {
		leave.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	leave.CreatedAt = now
	leave.UpdatedAt = now
	const query = `INSERT INTO leave_requests (id, student_id, start_date, end_date, reason, status, created_at, updated_at)
VALUES (:id, :student_id, :start_date, :end_date, :reason, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, leave); err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// FindByID returns a leave request with student and reviewer names.
func (r *LeaveRepository) FindByID(ctx context.Context, id string) (*models.LeaveRequestDetail, error) {
	var leave models.LeaveRequestDetail
	if err := r.db.GetContext(ctx, &leave, leaveDetailSelect+` WHERE l.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get leave request: %w", err)
	}
	return &leave, nil
}

// List returns leave requests newest first, optionally by status or student.
func (r *LeaveRepository) List(ctx context.Context, status *models.LeaveStatus, studentID string) ([]models.LeaveRequestDetail, error) {
	var cond conditions
	if status != nil {
		cond.add("l.status = %s", *status)
	}
	if studentID != "" {
		cond.add("l.student_id = %s", studentID)
	}
	var leaves []models.LeaveRequestDetail
	if err := r.db.SelectContext(ctx, &leaves, leaveDetailSelect+cond.where()+` ORDER BY l.created_at DESC`, cond.args...); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return leaves, nil
}

// Review applies a terminal decision to a request that is still pending. It
// reports false when no pending row matched.
func (r *LeaveRepository) Review(ctx context.Context, review models.LeaveReview) (bool, error) {
	const query = `UPDATE leave_requests SET status = $2, reviewed_by = $3, review_date = $4, admin_remarks = $5, updated_at = $4
WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, review.ID, review.Status, review.ReviewerID, review.ReviewedAt, review.Remarks)
	if err != nil {
		return false, fmt.Errorf("review leave request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("review leave request: %w", err)
	}
	return n == 1, nil
}
