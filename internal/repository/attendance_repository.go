package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sis-api/internal/models"
)

// AttendanceRepository persists per-course attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a mark. The unique (student_id, course_id, date) index
// rejects a second mark for the same day.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO attendance (id, student_id, course_id, date, status, marked_by, created_at) VALUES (:id, :student_id, :course_id, :date, :status, :marked_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// Exists reports whether a mark is already stored for the student, course and day.
func (r *AttendanceRepository) Exists(ctx context.Context, studentID, courseID string, date models.Date) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM attendance WHERE student_id = $1 AND course_id = $2 AND date = $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID, date); err != nil {
		return false, fmt.Errorf("check attendance: %w", err)
	}
	return exists, nil
}

// List returns attendance joined with course and student names, newest first.
func (r *AttendanceRepository) List(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceDetail, error) {
	var cond conditions
	if filter.StudentID != "" {
		cond.add("a.student_id = %s", filter.StudentID)
	}
	if filter.CourseID != "" {
		cond.add("a.course_id = %s", filter.CourseID)
	}
	if filter.DateFrom != nil {
		cond.add("a.date >= %s", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		cond.add("a.date <= %s", *filter.DateTo)
	}

	query := `SELECT a.id, a.student_id, a.course_id, a.date, a.status, a.marked_by, a.created_at,
c.name AS course_name, u.full_name AS student_name
FROM attendance a
JOIN courses c ON c.id = a.course_id
JOIN students s ON s.id = a.student_id
JOIN users u ON u.id = s.user_id` + cond.where() + ` ORDER BY a.date DESC, u.full_name ASC`

	var records []models.AttendanceDetail
	if err := r.db.SelectContext(ctx, &records, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// Marks returns status rows for rollups. An empty studentID selects every student.
func (r *AttendanceRepository) Marks(ctx context.Context, studentID string) ([]models.AttendanceMark, error) {
	var cond conditions
	if studentID != "" {
		cond.add("a.student_id = %s", studentID)
	}
	query := `SELECT a.student_id, c.name AS course_name, a.status FROM attendance a JOIN courses c ON c.id = a.course_id` + cond.where()

	var marks []models.AttendanceMark
	if err := r.db.SelectContext(ctx, &marks, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list attendance marks: %w", err)
	}
	return marks, nil
}
