package models

import "time"

// ContactInfo holds the self-editable profile fields shared by students and teachers.
type ContactInfo struct {
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Address        *string    `db:"address" json:"address,omitempty"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	ProfilePicture *string    `db:"profile_picture" json:"profile_picture,omitempty"`
}

// Student is the academic profile attached to a student user.
type Student struct {
	ID            string `db:"id" json:"id"`
	UserID        string `db:"user_id" json:"user_id"`
	StudentNumber string `db:"student_number" json:"student_id"`
	Department    string `db:"department" json:"department"`
	Semester      int    `db:"semester" json:"semester"`
	Section       string `db:"section" json:"section"`
	RollNumber    string `db:"roll_number" json:"roll_number"`
	ContactInfo
	GuardianName  *string   `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianPhone *string   `db:"guardian_phone" json:"guardian_phone,omitempty"`
	BloodGroup    *string   `db:"blood_group" json:"blood_group,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail joins the student profile with its user.
type StudentDetail struct {
	Student
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// StudentProfile is the student's own profile with enrolled courses.
type StudentProfile struct {
	StudentDetail
	EnrolledCourses []Course `json:"enrolled_courses"`
}
