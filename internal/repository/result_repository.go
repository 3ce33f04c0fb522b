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

const resultColumns = `r.id, r.student_id, r.course_id, r.quiz1, r.quiz2, r.assignment1, r.assignment2, r.midterm, r.final_exam,
r.quiz, r.assignment, r.total, r.grade, r.gpa, r.created_at, r.updated_at`

// ResultRepository persists graded results, one per student and course.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Get returns the result for a student and course.
func (r *ResultRepository) Get(ctx context.Context, studentID, courseID string) (*models.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM results r WHERE r.student_id = $1 AND r.course_id = $2`
	var result models.Result
	if err := r.db.GetContext(ctx, &result, query, studentID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	return &result, nil
}

// Upsert writes the result, replacing scores and derived fields of an
// existing row for the same student and course.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if result.CreatedAt.IsZero() {
		result.CreatedAt = now
	}
	result.UpdatedAt = now

	const query = `INSERT INTO results (id, student_id, course_id, quiz1, quiz2, assignment1, assignment2, midterm, final_exam, quiz, assignment, total, grade, gpa, created_at, updated_at)
VALUES (:id, :student_id, :course_id, :quiz1, :quiz2, :assignment1, :assignment2, :midterm, :final_exam, :quiz, :assignment, :total, :grade, :gpa, :created_at, :updated_at)
ON CONFLICT (student_id, course_id) DO UPDATE SET
quiz1 = EXCLUDED.quiz1, quiz2 = EXCLUDED.quiz2, assignment1 = EXCLUDED.assignment1, assignment2 = EXCLUDED.assignment2,
midterm = EXCLUDED.midterm, final_exam = EXCLUDED.final_exam, quiz = EXCLUDED.quiz, assignment = EXCLUDED.assignment,
total = EXCLUDED.total, grade = EXCLUDED.grade, gpa = EXCLUDED.gpa, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// ListByCourse returns the results of a course with student names.
func (r *ResultRepository) ListByCourse(ctx context.Context, courseID string) ([]models.ResultDetail, error) {
	query := `SELECT ` + resultColumns + `, c.name AS course_name, u.full_name AS student_name
FROM results r
JOIN courses c ON c.id = r.course_id
JOIN students s ON s.id = r.student_id
JOIN users u ON u.id = s.user_id
WHERE r.course_id = $1 ORDER BY u.full_name ASC`
	var results []models.ResultDetail
	if err := r.db.SelectContext(ctx, &results, query, courseID); err != nil {
		return nil, fmt.Errorf("list results by course: %w", err)
	}
	return results, nil
}

// ListByStudent returns a student's results, oldest first.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ResultDetail, error) {
	query := `SELECT ` + resultColumns + `, c.name AS course_name, '' AS student_name
FROM results r JOIN courses c ON c.id = r.course_id
WHERE r.student_id = $1 ORDER BY r.created_at ASC`
	var results []models.ResultDetail
	if err := r.db.SelectContext(ctx, &results, query, studentID); err != nil {
		return nil, fmt.Errorf("list results by student: %w", err)
	}
	return results, nil
}

// Graded returns reduced result rows for rollups, oldest first. An empty
// studentID selects every student.
func (r *ResultRepository) Graded(ctx context.Context, studentID string) ([]models.GradedResult, error) {
	var cond conditions
	if studentID != "" {
		cond.add("r.student_id = %s", studentID)
	}
	query := `SELECT r.student_id, c.name AS course_name, r.grade, r.gpa, r.total, r.created_at FROM results r JOIN courses c ON c.id = r.course_id` +
		cond.where() + ` ORDER BY r.created_at ASC`
	var results []models.GradedResult
	if err := r.db.SelectContext(ctx, &results, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list graded results: %w", err)
	}
	return results, nil
}
