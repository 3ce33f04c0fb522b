package models

import "time"

// AnnouncementAudience defines who can see an announcement.
type AnnouncementAudience string

const (
	AudienceAll      AnnouncementAudience = "all"
	AudienceStudents AnnouncementAudience = "students"
	AudienceTeachers AnnouncementAudience = "teachers"
)

// AudienceFor returns the audience that addresses role specifically.
// Admins only see announcements addressed to everyone.
func AudienceFor(role UserRole) AnnouncementAudience {
	switch role {
	case RoleStudent:
		return AudienceStudents
	case RoleTeacher:
		return AudienceTeachers
	default:
		return AudienceAll
	}
}

// AnnouncementPriority defines ordering for announcements.
type AnnouncementPriority string

const (
	PriorityLow    AnnouncementPriority = "low"
	PriorityMedium AnnouncementPriority = "medium"
	PriorityHigh   AnnouncementPriority = "high"
)

// Announcement represents a persisted announcement row. ExpiryDate is only
// used to filter reads.
type Announcement struct {
	ID         string               `db:"id" json:"id"`
	Title      string               `db:"title" json:"title"`
	Content    string               `db:"content" json:"content"`
	AuthorID   string               `db:"author_id" json:"author_id"`
	Audience   AnnouncementAudience `db:"target_audience" json:"target_audience"`
	Priority   AnnouncementPriority `db:"priority" json:"priority"`
	ExpiryDate *time.Time           `db:"expiry_date" json:"expiry_date,omitempty"`
	CreatedAt  time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `db:"updated_at" json:"updated_at"`
}

// AnnouncementDetail joins the author name.
type AnnouncementDetail struct {
	Announcement
	AuthorName string `db:"author_name" json:"author_name"`
}

// AnnouncementFilter scopes announcement listings. A nil Now lists every row.
type AnnouncementFilter struct {
	Audiences []AnnouncementAudience
	Now       *time.Time
}
