package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/internal/service"
)

func TestMetricsHandlerReadyAllUp(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	h := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{"postgres": up, "redis": up}, nil)
	c, rec := newTestContext(http.MethodGet, "/ready", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestMetricsHandlerReadyDegraded(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	}, nil)
	c, rec := newTestContext(http.MethodGet, "/ready", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"down"`)
	assert.Contains(t, rec.Body.String(), `"postgres":"up"`)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), nil, nil)
	c, rec := newTestContext(http.MethodGet, "/metrics", nil)

	h.Prometheus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakeSessionServer struct {
	userID string
}

func (f *fakeSessionServer) Serve(w http.ResponseWriter, _ *http.Request, userID string) error {
	f.userID = userID
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

func TestRealtimeHandlerRequiresClaims(t *testing.T) {
	hub := &fakeSessionServer{}
	h := NewRealtimeHandler(hub, nil)
	c, rec := newTestContext(http.MethodGet, "/ws", nil)

	h.Connect(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, hub.userID)
}

func TestRealtimeHandlerServesCaller(t *testing.T) {
	hub := &fakeSessionServer{}
	h := NewRealtimeHandler(hub, nil)
	c, _ := newTestContext(http.MethodGet, "/ws", nil)
	asUser(c, "u-9", models.RoleStudent)

	h.Connect(c)

	assert.Equal(t, "u-9", hub.userID)
}

