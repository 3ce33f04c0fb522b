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

const feeColumns = `f.id, f.student_id, f.amount, f.semester, f.description, f.due_date, f.status, f.created_at, f.updated_at`

// FeeRepository persists student fees.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// Create inserts a fee.
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	fee.CreatedAt = now
	fee.UpdatedAt = now
	const query = `INSERT INTO fees (id, student_id, amount, semester, description, due_date, status, created_at, updated_at)
VALUES (:id, :student_id, :amount, :semester, :description, :due_date, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("create fee: %w", err)
	}
	return nil
}

// FindByID returns a fee by id.
func (r *FeeRepository) FindByID(ctx context.Context, id string) (*models.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees f WHERE f.id = $1`
	var fee models.Fee
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get fee: %w", err)
	}
	return &fee, nil
}

// List returns fees with student name and email, newest first. An empty
// studentID selects every student.
func (r *FeeRepository) List(ctx context.Context, studentID string) ([]models.FeeDetail, error) {
	var cond conditions
	if studentID != "" {
		cond.add("f.student_id = %s", studentID)
	}
	query := `SELECT ` + feeColumns + `, u.full_name AS student_name, u.email AS student_email
FROM fees f JOIN students s ON s.id = f.student_id JOIN users u ON u.id = s.user_id` + cond.where() + ` ORDER BY f.created_at DESC`
	var fees []models.FeeDetail
	if err := r.db.SelectContext(ctx, &fees, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	return fees, nil
}

// All returns raw fee rows for rollups. An empty studentID selects every student.
func (r *FeeRepository) All(ctx context.Context, studentID string) ([]models.Fee, error) {
	var cond conditions
	if studentID != "" {
		cond.add("f.student_id = %s", studentID)
	}
	query := `SELECT ` + feeColumns + ` FROM fees f` + cond.where()
	var fees []models.Fee
	if err := r.db.SelectContext(ctx, &fees, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list fee rows: %w", err)
	}
	return fees, nil
}

// UpdateStatus sets the paid flag of a fee.
func (r *FeeRepository) UpdateStatus(ctx context.Context, id string, status models.FeeStatus) error {
	const query = `UPDATE fees SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update fee status: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a fee.
func (r *FeeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fee: %w", err)
	}
	return expectAffected(res)
}
