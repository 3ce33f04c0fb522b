package models

import (
	"time"

	"github.com/noah-isme/sis-api/pkg/grading"
)

// Result holds raw scores and the derived fields for one (student, course)
// pair. Derived fields are written only by the grading package.
type Result struct {
	ID        string `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"student_id"`
	CourseID  string `db:"course_id" json:"course_id"`
	grading.Scores
	Quiz       float64   `db:"quiz" json:"quiz"`
	Assignment float64   `db:"assignment" json:"assignment"`
	Total      float64   `db:"total" json:"total"`
	Grade      string    `db:"grade" json:"grade"`
	GPA        float64   `db:"gpa" json:"gpa"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Apply copies a computed outcome onto the result.
func (r *Result) Apply(out grading.Outcome) {
	r.Scores = out.Scores
	r.Quiz = out.Quiz
	r.Assignment = out.Assignment
	r.Total = out.Total
	r.Grade = out.Grade
	r.GPA = out.GPA
}

// ResultDetail joins course and student names.
type ResultDetail struct {
	Result
	CourseName  string `db:"course_name" json:"course_name"`
	StudentName string `db:"student_name" json:"student_name,omitempty"`
}
