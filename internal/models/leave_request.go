package models

import "time"

// LeaveStatus values. Approved and rejected are terminal.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// CanTransition reports whether a request in s may move to next.
func (s LeaveStatus) CanTransition(next LeaveStatus) bool {
	return s == LeavePending && (next == LeaveApproved || next == LeaveRejected)
}

// LeaveRequest is a student's request for absence.
type LeaveRequest struct {
	ID           string      `db:"id" json:"id"`
	StudentID    string      `db:"student_id" json:"student_id"`
	StartDate    Date        `db:"start_date" json:"start_date"`
	EndDate      Date        `db:"end_date" json:"end_date"`
	Reason       string      `db:"reason" json:"reason"`
	Status       LeaveStatus `db:"status" json:"status"`
	ReviewedBy   *string     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewDate   *time.Time  `db:"review_date" json:"review_date,omitempty"`
	AdminRemarks *string     `db:"admin_remarks" json:"admin_remarks,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// LeaveRequestDetail joins the student and reviewer names.
type LeaveRequestDetail struct {
	LeaveRequest
	StudentUserID string  `db:"student_user_id" json:"student_user_id"`
	StudentName   string  `db:"student_name" json:"student_name"`
	StudentEmail  string  `db:"student_email" json:"student_email"`
	ReviewerName  *string `db:"reviewer_name" json:"reviewer_name,omitempty"`
}

// LeaveReview is the terminal write applied to a pending request.
type LeaveReview struct {
	ID         string
	Status     LeaveStatus
	Remarks    *string
	ReviewerID string
	ReviewedAt time.Time
}
