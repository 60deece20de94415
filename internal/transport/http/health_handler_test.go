package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datalens/internal/services"
)

// stubHealthService implements HealthServiceInterface
type stubHealthService struct {
	ready bool
}

func (s *stubHealthService) Check(ctx context.Context) services.HealthStatus {
	return services.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Uptime:    "5s",
	}
}

func (s *stubHealthService) Ready(ctx context.Context) bool { return s.ready }
func (s *stubHealthService) Version() string                { return "1.0.0" }

func newHealthHandler(ready bool) *HealthHandler {
	return NewHealthHandler(&stubHealthService{ready: ready}, testLogger(), testErrorHandler())
}

func TestHealthCheck(t *testing.T) {
	handler := newHealthHandler(true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["status"])
	assert.Equal(t, "1.0.0", status["version"])
}

func TestHealthReady(t *testing.T) {
	handler := newHealthHandler(true)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestHealthNotReady(t *testing.T) {
	handler := newHealthHandler(false)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthLive(t *testing.T) {
	handler := newHealthHandler(true)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestVersionEndpoint(t *testing.T) {
	handler := newHealthHandler(true)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	http.HandlerFunc(handler.Version).ServeHTTP(rec, req)

	assert.JSONEq(t, `{"version":"1.0.0"}`, rec.Body.String())
}
