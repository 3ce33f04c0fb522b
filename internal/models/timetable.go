package models

import "time"

// Weekdays lists the teaching days in display order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayIndex returns the display position of day or -1.
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// TimetableSlot is one weekly class session. TeacherID references the
// teacher profile.
type TimetableSlot struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Day       string    `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	Room      string    `db:"room" json:"room"`
	Semester  int       `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableDetail joins course and teacher names.
type TimetableDetail struct {
	TimetableSlot
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
	CreditHours int    `db:"credit_hours" json:"credit_hours"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// TimetableFilter scopes timetable listings.
type TimetableFilter struct {
	TeacherID string
	CourseIDs []string
	Semester  *int
}
