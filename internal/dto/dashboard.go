package dto

import "github.com/noah-isme/sis-api/pkg/rollup"

// AdminStats captures the aggregated admin dashboard payload.
type AdminStats struct {
	TotalStudents int             `json:"totalStudents"`
	TotalTeachers int             `json:"totalTeachers"`
	TotalCourses  int             `json:"totalCourses"`
	Fees          rollup.FeeStats `json:"fees"`
}

// StudentStats captures the personalised student dashboard payload.
type StudentStats struct {
	Attendance      rollup.AttendanceStats `json:"attendance"`
	AttendanceLabel string                 `json:"attendanceLabel"`
	Fees            rollup.FeeStats        `json:"fees"`
	OverallGPA      float64                `json:"overallGPA"`
}

// TeacherStats captures the personalised teacher dashboard payload.
type TeacherStats struct {
	Courses  int `json:"courses"`
	Students int `json:"students"`
}
