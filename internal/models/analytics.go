package models

import "time"

// SystemMetrics is a snapshot of process instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	NotificationsPushed      uint64    `json:"notifications_pushed"`
	ExportsFinished          uint64    `json:"exports_finished"`
	ExportsFailed            uint64    `json:"exports_failed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// AttendanceMark is an attendance status joined with its course name. It is
// the input row for attendance rollups.
type AttendanceMark struct {
	StudentID  string           `db:"student_id"`
	CourseName string           `db:"course_name"`
	Status     AttendanceStatus `db:"status"`
}

// GradedResult is a result row reduced for performance rollups.
type GradedResult struct {
	StudentID  string    `db:"student_id"`
	CourseName string    `db:"course_name"`
	Grade      string    `db:"grade"`
	GPA        float64   `db:"gpa"`
	Total      float64   `db:"total"`
	CreatedAt  time.Time `db:"created_at"`
}
