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

const timetableSelect = `SELECT tt.id, tt.course_id, tt.teacher_id, tt.day, tt.start_time, tt.end_time, tt.room, tt.semester,
tt.created_at, tt.updated_at, c.code AS course_code, c.name AS course_name, c.credit_hours, u.full_name AS teacher_name
FROM timetable tt
JOIN courses c ON c.id = tt.course_id
JOIN teachers t ON t.id = tt.teacher_id
JOIN users u ON u.id = t.user_id`

// TimetableRepository persists weekly timetable slots.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns slots matching the filter. Ordering by weekday is applied by
// the caller since day names do not sort alphabetically.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableDetail, error) {
	var cond conditions
	if filter.TeacherID != "" {
		cond.add("tt.teacher_id = %s", filter.TeacherID)
	}
	if filter.CourseIDs != nil {
		cond.add("tt.course_id = ANY(%s)", pq.Array(filter.CourseIDs))
	}
	if filter.Semester != nil {
		cond.add("tt.semester = %s", *filter.Semester)
	}
	var slots []models.TimetableDetail
	if err := r.db.SelectContext(ctx, &slots, timetableSelect+cond.where()+` ORDER BY tt.start_time ASC`, cond.args...); err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	return slots, nil
}

// FindByID returns a slot by id.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.TimetableDetail, error) {
	var slot models.TimetableDetail
	if err := r.db.GetContext(ctx, &slot, timetableSelect+` WHERE tt.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get timetable slot: %w", err)
	}
	return &slot, nil
}

// Create inserts a slot.
func (r *TimetableRepository) Create(ctx context.Context, slot *models.TimetableSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	const query = `INSERT INTO timetable (id, course_id, teacher_id, day, start_time, end_time, room, semester, created_at, updated_at)
VALUES (:id, :course_id, :teacher_id, :day, :start_time, :end_time, :room, :semester, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create timetable slot: %w", err)
	}
	return nil
}

// Update overwrites a slot.
func (r *TimetableRepository) Update(ctx context.Context, slot *models.TimetableSlot) error {
	slot.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable SET course_id = :course_id, teacher_id = :teacher_id, day = :day, start_time = :start_time,
end_time = :end_time, room = :room, semester = :semester, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, slot)
	if err != nil {
		return fmt.Errorf("update timetable slot: %w", err)
	}
	return expectAffected(res)
}

// Delete removes a slot.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timetable WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete timetable slot: %w", err)
	}
	return expectAffected(res)
}
