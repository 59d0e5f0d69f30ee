package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umorjyoti/trip-sub006/internal/api/handlers"
	"github.com/umorjyoti/trip-sub006/internal/auth"
	"github.com/umorjyoti/trip-sub006/internal/config"
	"github.com/umorjyoti/trip-sub006/internal/metrics"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	cfg := &config.Config{
		JwtSecret:           testSecret,
		CorsAllowedOrigin:   "*",
		RateLimitBucketSize: 100,
		RateLimitRefillRate: 100,
		UploadMaxSizeMB:     1,
	}
	return SetupRouter(ctx, Dependencies{
		Config:    cfg,
		Log:       logr.Discard(),
		Collector: metrics.NewCollector(time.Second, 8),
	})
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_Ping(t *testing.T) {
	w := get(newTestRouter(t), "/api/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetupRouter_AdminRoutesNeedAdminToken(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/api/admin/performance", "").Code)

	userToken, err := auth.GenerateJWT("u-1", false, testSecret, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, "/api/notifications", userToken).Code)

	adminToken, err := auth.GenerateJWT("admin-1", true, testSecret, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "/api/admin/performance", adminToken).Code)
}

func TestSetupRouter_MetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	get(r, "/api/ping", "")

	w := get(r, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `trek_admin_http_requests_total{method="GET",route="/api/ping",status="200"} 1`), w.Body.String())
}

func TestSetupServiceRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupServiceRouter(handlers.NewServiceApiHandler(nil, make(chan struct{}, 1), logr.Discard()), logr.Discard())

	req := httptest.NewRequest("POST", "/api", strings.NewReader(`{"method":"ping"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
