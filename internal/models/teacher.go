package models

import "time"

// Teacher is the staff profile attached to a teacher user.
type Teacher struct {
	ID            string `db:"id" json:"id"`
	UserID        string `db:"user_id" json:"user_id"`
	TeacherNumber string `db:"teacher_number" json:"teacher_id"`
	Department    string `db:"department" json:"department"`
	ContactInfo
	Qualification  *string   `db:"qualification" json:"qualification,omitempty"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherDetail joins the teacher profile with its user.
type TeacherDetail struct {
	Teacher
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// TeacherProfile is the teacher's own profile with assigned courses.
type TeacherProfile struct {
	TeacherDetail
	AssignedCourses []Course `json:"assigned_courses"`
}
