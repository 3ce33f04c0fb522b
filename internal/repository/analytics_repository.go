package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TeacherLoad counts the courses a teacher instructs and the distinct
// students enrolled in them.
type TeacherLoad struct {
	UserID   string `db:"user_id"`
	Courses  int    `db:"courses"`
	Students int    `db:"students"`
}

// AnalyticsRepository exposes read-optimised counts for reports. Status
// reductions are left to the rollup package.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// EnrollmentCounts maps student profile ids to their enrolled course count.
func (r *AnalyticsRepository) EnrollmentCounts(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, `SELECT student_id AS key, COUNT(*) AS count FROM enrollments GROUP BY student_id`, "enrollment")
}

// ResultCounts maps student profile ids to their graded result count.
func (r *AnalyticsRepository) ResultCounts(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, `SELECT student_id AS key, COUNT(*) AS count FROM results GROUP BY student_id`, "result")
}

// TeacherLoads returns course and student counts per instructor user id.
func (r *AnalyticsRepository) TeacherLoads(ctx context.Context) (map[string]TeacherLoad, error) {
	const query = `SELECT c.instructor_id AS user_id, COUNT(DISTINCT c.id) AS courses, COUNT(DISTINCT e.student_id) AS students
FROM courses c LEFT JOIN enrollments e ON e.course_id = c.id
WHERE c.instructor_id IS NOT NULL GROUP BY c.instructor_id`
	var rows []TeacherLoad
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query teacher loads: %w", err)
	}
	loads := make(map[string]TeacherLoad, len(rows))
	for _, row := range rows {
		loads[row.UserID] = row
	}
	return loads, nil
}

func (r *AnalyticsRepository) countBy(ctx context.Context, query, label string) (map[string]int, error) {
	var rows []struct {
		Key   string `db:"key"`
		Count int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query %s counts: %w", label, err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}
