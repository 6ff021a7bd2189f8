package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/shengyanli1982/quotes-go/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientKey = "rate_limit:192.0.2.1"

func likeTimes(t *testing.T, stack *testStack, id string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		w, _ := do(t, stack.api, http.MethodPost, "/api/v1/quotes/"+id+"/like", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAdminService_Entries(t *testing.T) {
	stack := newTestStack(t, "{}")
	likeTimes(t, stack, createQuote(t, stack.api), 3)

	w, env := do(t, stack.admin, http.MethodGet, "/ratelimit/entries", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var entries map[string]map[string]ratelimit.Entry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Contains(t, entries, "like")
	assert.Equal(t, 3, entries["like"][testClientKey].Count)

	// 记录数指标在查询时刷新
	w, _ = do(t, stack.admin, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `quotes_rate_limit_entries{limiter="like"} 1`)
	assert.Contains(t, w.Body.String(), `quotes_rate_limit_admissions_total{limiter="like"} 3`)
}

func TestAdminService_Status(t *testing.T) {
	stack := newTestStack(t, "{}")
	likeTimes(t, stack, createQuote(t, stack.api), 4)

	tests := []struct {
		name     string
		path     string
		code     int
		contains string
	}{
		{name: "full key", path: "/ratelimit/like/status?key=" + testClientKey, code: http.StatusOK, contains: `"remaining":6`},
		{name: "bare address", path: "/ratelimit/like/status?key=192.0.2.1", code: http.StatusOK, contains: `"count":4`},
		{name: "unknown key", path: "/ratelimit/like/status?key=198.51.100.1", code: http.StatusOK, contains: `"data":null`},
		{name: "missing key", path: "/ratelimit/like/status", code: http.StatusBadRequest, contains: `"code":"BAD_REQUEST"`},
		{name: "unknown limiter", path: "/ratelimit/strict/status?key=192.0.2.1", code: http.StatusNotFound, contains: `"code":"NOT_FOUND"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, stack.admin, http.MethodGet, tt.path, nil, nil)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestAdminService_Reset(t *testing.T) {
	stack := newTestStack(t, `
rateLimits:
  like:
    maxRequests: 2
`)
	id := createQuote(t, stack.api)
	likeTimes(t, stack, id, 2)

	w, _ := do(t, stack.api, http.MethodPost, "/api/v1/quotes/"+id+"/like", nil, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	w, env := do(t, stack.admin, http.MethodDelete, "/ratelimit/like?key=192.0.2.1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	// 重置后重新计数
	w, _ = do(t, stack.api, http.MethodPost, "/api/v1/quotes/"+id+"/like", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w, _ = do(t, stack.admin, http.MethodDelete, "/ratelimit/like", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, stack.admin, http.MethodDelete, "/ratelimit/general?key=192.0.2.1", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminService_MetricsWithoutRegistry(t *testing.T) {
	logger := logr.Discard()
	service := NewAdminService(ratelimit.NewRegistry(), nil, nil, &logger)

	router := gin.New()
	service.RegisterGroup(router.Group("/"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "metrics registry not available")
}

func TestAdminService_RunStop(t *testing.T) {
	logger := logr.Discard()
	service := NewAdminService(ratelimit.NewRegistry(), nil, nil, &logger)

	assert.False(t, service.IsRunning())
	service.Run()
	service.Run()
	assert.True(t, service.IsRunning())
	service.Stop()
	assert.False(t, service.IsRunning())
}

func TestLimiterKey(t *testing.T) {
	assert.Equal(t, "", limiterKey(""))
	assert.Equal(t, testClientKey, limiterKey("192.0.2.1"))
	assert.Equal(t, testClientKey, limiterKey(testClientKey))
	assert.Equal(t, "rate_limit:unknown", limiterKey("unknown"))
}
