package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sis-api/internal/dto"
	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.UserInfo, error) {
	var out models.UserInfo
	if err := c.get(ctx, "/auth/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Announcements returns the feed visible to the session's role.
func (c *Client) Announcements(ctx context.Context) ([]models.AnnouncementDetail, error) {
	var out []models.AnnouncementDetail
	if err := c.get(ctx, "/announcements", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Notifications returns one page of the caller's notifications.
func (c *Client) Notifications(ctx context.Context, page, limit int) (*dto.NotificationFeed, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	path := "/notifications"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out dto.NotificationFeed
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAllNotificationsRead marks the caller's feed read and returns how many
// notifications changed.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var out struct {
		Updated int64 `json:"updated"`
	}
	if err := c.send(ctx, http.MethodPut, "/notifications/mark-all-read", nil, &out, true); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// SubmitLeave files a pending leave request for the student session.
func (c *Client) SubmitLeave(ctx context.Context, start, end models.Date, reason string) (*models.LeaveRequest, error) {
	body := map[string]interface{}{"start_date": start, "end_date": end, "reason": reason}
	var out models.LeaveRequest
	if err := c.send(ctx, http.MethodPost, "/student/leave-request", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentAttendance returns the student's attendance records.
func (c *Client) StudentAttendance(ctx context.Context) (*dto.StudentAttendance, error) {
	var out dto.StudentAttendance
	if err := c.get(ctx, "/student/attendance", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentFees returns the student's fees.
func (c *Client) StudentFees(ctx context.Context) (*dto.StudentFees, error) {
	var out dto.StudentFees
	if err := c.get(ctx, "/student/fees", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentResults returns the student's graded results.
func (c *Client) StudentResults(ctx context.Context) ([]models.ResultDetail, error) {
	var out []models.ResultDetail
	if err := c.get(ctx, "/student/results", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminDashboard returns the admin counters.
func (c *Client) AdminDashboard(ctx context.Context) (*dto.AdminStats, error) {
	var out dto.AdminStats
	if err := c.get(ctx, "/admin/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminFees lists every fee.
func (c *Client) AdminFees(ctx context.Context) ([]models.FeeDetail, error) {
	var out []models.FeeDetail
	if err := c.get(ctx, "/admin/fees", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// StudentDashboard fetches attendance and fees concurrently and reduces them
// locally, so the figures come from the same records the student sees.
func (c *Client) StudentDashboard(ctx context.Context) (*dto.StudentStats, error) {
	var (
		attendance *dto.StudentAttendance
		fees       *dto.StudentFees
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		attendance, err = c.StudentAttendance(gctx)
		return err
	})
	g.Go(func() (err error) {
		fees, err = c.StudentFees(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statuses := make([]string, 0, len(attendance.Records))
	for _, r := range attendance.Records {
		statuses = append(statuses, string(r.Status))
	}
	stats := rollup.Attendance(statuses)
	return &dto.StudentStats{
		Attendance:      stats,
		AttendanceLabel: rollup.AttendanceLabel(stats.Percentage),
		Fees:            FeeSummary(fees.Fees),
	}, nil
}

// FeeSummary reduces fees with the shared fee rollup.
func FeeSummary(fees []models.Fee) rollup.FeeStats {
	in := make([]rollup.Fee, 0, len(fees))
	for _, f := range fees {
		in = append(in, rollup.Fee{Amount: f.Amount, Status: string(f.Status), CreatedAt: f.CreatedAt})
	}
	return rollup.Fees(in)
}
