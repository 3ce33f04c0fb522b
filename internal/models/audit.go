package models

import "time"

// Audit actions recorded for state changing requests.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionUserCreate     = "USER_CREATE"
	AuditActionUserDelete     = "USER_DELETE"
	AuditActionLeaveReview    = "LEAVE_REVIEW"
	AuditActionFeeStatus      = "FEE_STATUS"
	AuditActionCourseAssign   = "COURSE_ASSIGN"
	AuditActionProfileUpdate  = "PROFILE_UPDATE"
	AuditActionExportCreate   = "EXPORT_CREATE"
	AuditActionTimetableEdit  = "TIMETABLE_EDIT"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
