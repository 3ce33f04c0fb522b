package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

type mockLeaveRepo struct {
	items map[string]*models.LeaveRequestDetail
	// staleReview simulates a concurrent review landing between the read
	// and the conditional write.
	staleReview bool
}

func newMockLeaveRepo() *mockLeaveRepo {
	return &mockLeaveRepo{items: map[string]*models.LeaveRequestDetail{}}
}

func (m *mockLeaveRepo) Create(ctx context.Context, leave *models.LeaveRequest) error {
	m.items[leave.ID] = &models.LeaveRequestDetail{LeaveRequest: *leave, StudentUserID: fxStudentUserID}
	return nil
}

func (m *mockLeaveRepo) FindByID(ctx context.Context, id string) (*models.LeaveRequestDetail, error) {
	if l, ok := m.items[id]; ok {
		copy := *l
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockLeaveRepo) List(ctx context.Context, status *models.LeaveStatus, studentID string) ([]models.LeaveRequestDetail, error) {
	var out []models.LeaveRequestDetail
	for _, l := range m.items {
		if status != nil && l.Status != *status {
			continue
		}
		if studentID != "" && l.StudentID != studentID {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockLeaveRepo) Review(ctx context.Context, review models.LeaveReview) (bool, error) {
	l, ok := m.items[review.ID]
	if !ok || l.Status != models.LeavePending || m.staleReview {
		return false, nil
	}
	l.Status = review.Status
	l.ReviewedBy = &review.ReviewerID
	l.ReviewDate = &review.ReviewedAt
	l.AdminRemarks = review.Remarks
	return true, nil
}

type leaveFixture struct {
	svc           *LeaveService
	repo          *mockLeaveRepo
	notifications *mockNotificationRepo
	audit         *mockAudit
}

func newLeaveFixture() leaveFixture {
	repo := newMockLeaveRepo()
	students := newMockStudentRepo(models.StudentDetail{Student: models.Student{ID: fxStudentID, UserID: fxStudentUserID}})
	notifications := &mockNotificationRepo{}
	audit := &mockAudit{}
	svc := NewLeaveService(repo, students, NewNotificationService(notifications, nil, nil, nil), audit, nil, nil)
	return leaveFixture{svc: svc, repo: repo, notifications: notifications, audit: audit}
}

func (f leaveFixture) submit(t *testing.T) *models.LeaveRequest {
	t.Helper()
	leave, err := f.svc.Submit(context.Background(), fxStudentUserID, SubmitLeaveRequest{
		StartDate: models.NewDate(2024, time.March, 4),
		EndDate:   models.NewDate(2024, time.March, 6),
		Reason:    "family event",
	})
	require.NoError(t, err)
	return leave
}

func TestLeaveServiceSubmit(t *testing.T) {
	f := newLeaveFixture()
	leave := f.submit(t)
	assert.Equal(t, models.LeavePending, leave.Status)
	assert.Equal(t, fxStudentID, leave.StudentID)

	_, err := f.svc.Submit(context.Background(), fxStudentUserID, SubmitLeaveRequest{
		StartDate: models.NewDate(2024, time.March, 6),
		EndDate:   models.NewDate(2024, time.March, 4),
		Reason:    "backwards",
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	mine, err := f.svc.ForStudent(context.Background(), fxStudentUserID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestLeaveServiceSubmitAcceptsBrowserDates(t *testing.T) {
	f := newLeaveFixture()
	var req SubmitLeaveRequest
	require.NoError(t, json.Unmarshal([]byte(`{"start_date":"2024-03-04","end_date":"2024-03-04T08:00:00+07:00","reason":"clinic"}`), &req))

	leave, err := f.svc.Submit(context.Background(), fxStudentUserID, req)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", leave.StartDate.String())
	assert.Equal(t, "2024-03-04", leave.EndDate.String())

	_, err = f.svc.Submit(context.Background(), fxStudentUserID, SubmitLeaveRequest{Reason: "no dates"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestLeaveServiceReviewNotifiesOnce(t *testing.T) {
	f := newLeaveFixture()
	leave := f.submit(t)
	remarks := "ok"

	reviewed, err := f.svc.Review(context.Background(), leave.ID, ReviewLeaveRequest{Status: models.LeaveApproved, Remarks: &remarks}, "admin-1", RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.LeaveApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "admin-1", *reviewed.ReviewedBy)
	assert.NotNil(t, reviewed.ReviewDate)

	require.Len(t, f.notifications.items, 1)
	n := f.notifications.items[0]
	assert.Equal(t, fxStudentUserID, n.UserID)
	assert.Equal(t, "Leave Request approved", n.Title)
	assert.Equal(t, "Your leave request from 2024-03-04 to 2024-03-06 has been approved.", n.Message)
	assert.Equal(t, models.NotificationSuccess, n.Type)
	require.NotNil(t, n.Link)
	assert.Equal(t, "/student/leave-requests", *n.Link)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, models.AuditActionLeaveReview, f.audit.logs[0].Action)

	_, err = f.svc.Review(context.Background(), leave.ID, ReviewLeaveRequest{Status: models.LeaveRejected}, "admin-1", RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
	assert.Len(t, f.notifications.items, 1)
}

func TestLeaveServiceReviewRejectsWithWarning(t *testing.T) {
	f := newLeaveFixture()
	leave := f.submit(t)

	_, err := f.svc.Review(context.Background(), leave.ID, ReviewLeaveRequest{Status: models.LeaveRejected}, "admin-1", RequestMeta{})
	require.NoError(t, err)
	require.Len(t, f.notifications.items, 1)
	assert.Equal(t, models.NotificationWarning, f.notifications.items[0].Type)
	assert.Equal(t, "Leave Request rejected", f.notifications.items[0].Title)
}

func TestLeaveServiceReviewErrors(t *testing.T) {
	f := newLeaveFixture()
	leave := f.submit(t)

	_, err := f.svc.Review(context.Background(), "missing", ReviewLeaveRequest{Status: models.LeaveApproved}, "admin-1", RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = f.svc.Review(context.Background(), leave.ID, ReviewLeaveRequest{Status: models.LeavePending}, "admin-1", RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	f.repo.staleReview = true
	_, err = f.svc.Review(context.Background(), leave.ID, ReviewLeaveRequest{Status: models.LeaveApproved}, "admin-1", RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
	assert.Empty(t, f.notifications.items)
	assert.Empty(t, f.audit.logs)
}
