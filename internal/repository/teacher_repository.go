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

const teacherDetailSelect = `SELECT t.id, t.user_id, t.teacher_number, t.department, t.phone, t.address, t.date_of_birth,
t.profile_picture, t.qualification, t.specialization, t.created_at, t.updated_at, u.full_name AS name, u.email
FROM teachers t JOIN users u ON u.id = t.user_id`

// TeacherRepository handles persistence for teacher profiles.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// Create inserts a new teacher profile.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (id, user_id, teacher_number, department, phone, address, date_of_birth, profile_picture, qualification, specialization, created_at, updated_at)
VALUES (:id, :user_id, :teacher_number, :department, :phone, :address, :date_of_birth, :profile_picture, :qualification, :specialization, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// FindByID returns a teacher profile by id.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.TeacherDetail, error) {
	return r.findOne(ctx, teacherDetailSelect+` WHERE t.id = $1`, id)
}

// FindByUserID returns the profile attached to a user.
func (r *TeacherRepository) FindByUserID(ctx context.Context, userID string) (*models.TeacherDetail, error) {
	return r.findOne(ctx, teacherDetailSelect+` WHERE t.user_id = $1`, userID)
}

func (r *TeacherRepository) findOne(ctx context.Context, query, arg string) (*models.TeacherDetail, error) {
	var teacher models.TeacherDetail
	if err := r.db.GetContext(ctx, &teacher, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get teacher: %w", err)
	}
	return &teacher, nil
}

// List returns all teachers ordered by name.
func (r *TeacherRepository) List(ctx context.Context) ([]models.TeacherDetail, error) {
	var teachers []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, teacherDetailSelect+` ORDER BY u.full_name ASC`); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// Count returns the number of teacher profiles.
func (r *TeacherRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM teachers`); err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return total, nil
}

// UpdateContact overwrites the self-editable contact fields.
func (r *TeacherRepository) UpdateContact(ctx context.Context, id string, contact models.ContactInfo) error {
	const query = `UPDATE teachers SET phone = $2, address = $3, date_of_birth = $4, profile_picture = $5, updated_at = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, contact.Phone, contact.Address, contact.DateOfBirth, contact.ProfilePicture, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update teacher contact: %w", err)
	}
	return expectAffected(res)
}
