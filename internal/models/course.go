package models

import "time"

// Course is a taught course. InstructorID references the instructor's user id.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"code" json:"course_id"`
	Name         string    `db:"name" json:"course_name"`
	CreditHours  int       `db:"credit_hours" json:"credit_hours"`
	Semester     string    `db:"semester" json:"semester"`
	InstructorID *string   `db:"instructor_id" json:"instructor_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail adds the instructor name.
type CourseDetail struct {
	Course
	InstructorName *string `db:"instructor_name" json:"instructor_name,omitempty"`
}

// Enrollment links a student profile to a course.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
