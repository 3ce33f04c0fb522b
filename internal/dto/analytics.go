package dto

import (
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

// FeeAnalytics is the admin fee collection view.
type FeeAnalytics struct {
	rollup.FeeStats
	MonthlyCollection []rollup.MonthlyFees `json:"monthlyCollection"`
}

// GPAPoint is one graded course in a student's history.
type GPAPoint struct {
	Course string  `json:"course"`
	GPA    float64 `json:"gpa"`
	Grade  string  `json:"grade"`
	Total  float64 `json:"total"`
}

// StudentAnalytics is the student's own performance view.
type StudentAnalytics struct {
	AttendanceStats []rollup.CourseAttendance `json:"attendanceStats"`
	GPAHistory      []GPAPoint                `json:"gpaHistory"`
	OverallGPA      float64                   `json:"overallGPA"`
}

// StudentAttendance lists a student's marks with their rollup.
type StudentAttendance struct {
	Records []models.AttendanceDetail `json:"records"`
	Summary rollup.AttendanceStats    `json:"summary"`
	Label   string                    `json:"label"`
}

// StudentFees lists a student's fees with their rollup.
type StudentFees struct {
	Fees    []models.Fee    `json:"fees"`
	Summary rollup.FeeStats `json:"summary"`
}

// NotificationFeed is one page of a user's notifications.
type NotificationFeed struct {
	Notifications []models.Notification `json:"notifications"`
	Pagination    *models.Pagination    `json:"pagination"`
	UnreadCount   int                   `json:"unreadCount"`
}
