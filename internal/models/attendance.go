package models

import "time"

// AttendanceStatus values.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLeave   AttendanceStatus = "Leave"
)

// Attendance is one mark for a student in a course on a date. Rows are never
// updated after insert.
type Attendance struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	CourseID  string           `db:"course_id" json:"course_id"`
	Date      Date             `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	MarkedBy  string           `db:"marked_by" json:"marked_by"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// AttendanceDetail joins the course and student names.
type AttendanceDetail struct {
	Attendance
	CourseName  string `db:"course_name" json:"course_name"`
	StudentName string `db:"student_name" json:"student_name,omitempty"`
}

// AttendanceFilter scopes attendance listings.
type AttendanceFilter struct {
	StudentID string
	CourseID  string
	DateFrom  *Date
	DateTo    *Date
}
