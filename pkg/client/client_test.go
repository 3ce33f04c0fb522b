package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/rollup"
)

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func newTestServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var authed int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"INVALID_CREDENTIALS","message":"invalid credentials","status":401}}`))
			return
		}
		writeData(w, http.StatusOK, models.LoginResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			ExpiresAt:    time.Now().Add(time.Hour),
			User:         models.UserInfo{ID: "stu-1", Role: models.RoleStudent},
		})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, models.LoginResponse{AccessToken: "access-2", ExpiresAt: time.Now().Add(time.Hour)})
	})
	mux.HandleFunc("/api/student/attendance", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&authed, 1)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeData(w, http.StatusOK, map[string]interface{}{"records": []map[string]string{
			{"status": "Present"}, {"status": "Present"}, {"status": "Absent"}, {"status": "Leave"},
		}})
	})
	mux.HandleFunc("/api/student/fees", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&authed, 1)
		writeData(w, http.StatusOK, map[string]interface{}{"fees": []map[string]interface{}{
			{"amount": 300, "status": "Paid"}, {"amount": 200, "status": "Unpaid"},
		}})
	})
	mux.HandleFunc("/api/student/leave-request", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeData(w, http.StatusCreated, map[string]string{
			"id": "leave-1", "status": "pending", "start_date": body["start_date"], "end_date": body["end_date"],
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &authed
}

func TestLoginBindsSessionWithoutMutatingClient(t *testing.T) {
	srv, _ := newTestServer(t)
	anon := New(srv.URL + "/api")

	c, err := anon.Login(context.Background(), "stu@school.test", "secret")
	require.NoError(t, err)

	assert.Nil(t, anon.Session())
	require.NotNil(t, c.Session())
	assert.Equal(t, models.RoleStudent, c.Session().Role())
	assert.Equal(t, "stu-1", c.Session().UserID())
}

func TestLoginDecodesTypedError(t *testing.T) {
	srv, _ := newTestServer(t)

	_, err := New(srv.URL+"/api").Login(context.Background(), "stu@school.test", "wrong")

	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.CodeInvalidCredentials, appErr.Code)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestRefreshKeepsIdentity(t *testing.T) {
	srv, _ := newTestServer(t)
	c, err := New(srv.URL+"/api").Login(context.Background(), "stu@school.test", "secret")
	require.NoError(t, err)

	refreshed, err := c.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "access-1", c.Session().AccessToken())
	assert.Equal(t, "access-2", refreshed.Session().AccessToken())
	assert.Equal(t, "refresh-1", refreshed.Session().RefreshToken())
	assert.Equal(t, "stu-1", refreshed.Session().UserID())
}

func TestExpiredSessionIsRejectedLocally(t *testing.T) {
	srv, calls := newTestServer(t)
	c, err := New(srv.URL+"/api").Login(context.Background(), "stu@school.test", "secret")
	require.NoError(t, err)

	late := c.WithSession(c.Session())
	late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = late.StudentAttendance(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestStudentDashboardReducesRecords(t *testing.T) {
	srv, _ := newTestServer(t)
	c, err := New(srv.URL+"/api").Login(context.Background(), "stu@school.test", "secret")
	require.NoError(t, err)

	stats, err := c.StudentDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Attendance.Total)
	assert.Equal(t, 50, stats.Attendance.Percentage)
	assert.Equal(t, float64(500), stats.Fees.Total)
	assert.Equal(t, float64(200), stats.Fees.Unpaid)
	assert.Equal(t, rollup.FeePending, stats.Fees.Status)
}

func TestSubmitLeaveSendsCalendarDates(t *testing.T) {
	srv, _ := newTestServer(t)
	c, err := New(srv.URL+"/api").Login(context.Background(), "stu@school.test", "secret")
	require.NoError(t, err)

	leave, err := c.SubmitLeave(context.Background(), models.NewDate(2024, time.March, 4), models.NewDate(2024, time.March, 6), "clinic")
	require.NoError(t, err)
	assert.Equal(t, models.LeavePending, leave.Status)
	assert.Equal(t, "2024-03-04", leave.StartDate.String())
	assert.Equal(t, "2024-03-06", leave.EndDate.String())
}

func TestSessionExpired(t *testing.T) {
	var nilSession *Session
	assert.True(t, nilSession.Expired(time.Now()))

	s := NewSession(models.LoginResponse{AccessToken: "a", ExpiresAt: time.Now().Add(time.Minute)})
	assert.False(t, s.Expired(time.Now()))
	assert.True(t, s.Expired(time.Now().Add(time.Minute)))
}
