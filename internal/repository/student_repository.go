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

const studentDetailSelect = `SELECT s.id, s.user_id, s.student_number, s.department, s.semester, s.section, s.roll_number,
s.phone, s.address, s.date_of_birth, s.profile_picture, s.guardian_name, s.guardian_phone, s.blood_group,
s.created_at, s.updated_at, u.full_name AS name, u.email
FROM students s JOIN users u ON u.id = s.user_id`

// StudentRepository handles persistence for student profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student profile.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	const query = `INSERT INTO students (id, user_id, student_number, department, semester, section, roll_number, phone, address, date_of_birth, profile_picture, guardian_name, guardian_phone, blood_group, created_at, updated_at)
VALUES (:id, :user_id, :student_number, :department, :semester, :section, :roll_number, :phone, :address, :date_of_birth, :profile_picture, :guardian_name, :guardian_phone, :blood_group, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// FindByID returns a student profile by id.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	return r.findOne(ctx, studentDetailSelect+` WHERE s.id = $1`, id)
}

// FindByUserID returns the profile attached to a user.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	return r.findOne(ctx, studentDetailSelect+` WHERE s.user_id = $1`, userID)
}

func (r *StudentRepository) findOne(ctx context.Context, query string, arg string) (*models.StudentDetail, error) {
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &student, nil
}

// List returns every student ordered by name.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, studentDetailSelect+` ORDER BY u.full_name ASC`); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ListByCourse returns students enrolled in a course.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error) {
	query := studentDetailSelect + ` JOIN enrollments e ON e.student_id = s.id WHERE e.course_id = $1 ORDER BY u.full_name ASC`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list students by course: %w", err)
	}
	return students, nil
}

// Count returns the number of student profiles.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}

// UpdateContact overwrites the self-editable contact fields.
func (r *StudentRepository) UpdateContact(ctx context.Context, id string, contact models.ContactInfo) error {
	const query = `UPDATE students SET phone = $2, address = $3, date_of_birth = $4, profile_picture = $5, updated_at = $6 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, contact.Phone, contact.Address, contact.DateOfBirth, contact.ProfilePicture, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update student contact: %w", err)
	}
	return expectAffected(res)
}
