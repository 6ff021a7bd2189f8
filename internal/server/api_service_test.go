package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/shengyanli1982/quotes-go/internal/config"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
	"github.com/shengyanli1982/quotes-go/internal/quote"
	"github.com/shengyanli1982/quotes-go/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func loadConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	m, err := config.NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load([]byte(yaml)))
	return m.GetConfig()
}

type testStack struct {
	api      *gin.Engine
	admin    *gin.Engine
	limiters *ratelimit.Registry
	registry *metrics.MetricsRegistry
}

func newTestStack(t *testing.T, yaml string) *testStack {
	t.Helper()
	cfg := loadConfig(t, yaml)
	logger := logr.Discard()

	registry := metrics.NewMetricsRegistry()
	collector, err := registry.GetOrCreateShared("test", cfg.Metrics)
	require.NoError(t, err)

	limiters := ratelimit.NewRegistry()
	apiService, err := NewAPIService(cfg, quote.NewMemoryRepository(), limiters, collector, &logger)
	require.NoError(t, err)
	adminService := NewAdminService(limiters, registry, collector, &logger)

	api := gin.New()
	apiService.RegisterGroup(api.Group("/"))
	admin := gin.New()
	adminService.RegisterGroup(admin.Group("/"))

	return &testStack{api: api, admin: admin, limiters: limiters, registry: registry}
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func createQuote(t *testing.T, router http.Handler) string {
	t.Helper()
	w, env := do(t, router, http.MethodPost, "/api/v1/quotes", map[string]string{"quote": "Simplicity is prerequisite for reliability.", "author": "Edsger Dijkstra"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var q quote.Quote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	return q.ID
}

func TestAPIService_Health(t *testing.T) {
	stack := newTestStack(t, "{}")

	w, _ := do(t, stack.api, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Contains(t, []string{"healthy", "unhealthy"}, health.Status)
	assert.Equal(t, "healthy", health.Checks.Application.Status)
	assert.GreaterOrEqual(t, health.Uptime, int64(0))
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, health.Timestamp)
}

func TestMemoryCheck(t *testing.T) {
	tests := []struct {
		name       string
		used       uint64
		total      uint64
		status     string
		percentage float64
	}{
		{name: "healthy", used: 50 << 20, total: 100 << 20, status: "healthy", percentage: 50},
		{name: "exactly ninety", used: 90 << 20, total: 100 << 20, status: "healthy", percentage: 90},
		{name: "over ninety", used: 95 << 20, total: 100 << 20, status: "unhealthy", percentage: 95},
		{name: "empty heap", used: 0, total: 0, status: "healthy", percentage: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := memoryCheck(tt.used, tt.total)
			assert.Equal(t, tt.status, check.Status)
			assert.Equal(t, tt.percentage, check.Percentage)
			assert.Equal(t, tt.used>>20, check.Used)
			assert.Equal(t, tt.total>>20, check.Total)
		})
	}
}

func TestAPIService_Version(t *testing.T) {
	stack := newTestStack(t, `
app:
  version: "1.2.3"
`)

	w, _ := do(t, stack.api, http.MethodGet, "/api/version", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var info VersionInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, VersionInfo{Name: "be-quotes-app", Version: "1.2.3", Description: "Backend API for the Quotes Application"}, info)
}

func TestAPIService_LikeLimiter(t *testing.T) {
	stack := newTestStack(t, "{}")
	id := createQuote(t, stack.api)

	for i := 1; i <= 10; i++ {
		w, _ := do(t, stack.api, http.MethodPost, "/api/v1/quotes/"+id+"/like", nil, nil)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
		assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
		assert.Empty(t, w.Header().Get("Retry-After"))
	}

	w, env := do(t, stack.api, http.MethodPost, "/api/v1/quotes/"+id+"/unlike", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.False(t, env.Success)
	assert.Equal(t, "Too many like/unlike requests. Please wait before trying again.", env.Message)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Error.Code)
	assert.JSONEq(t, "null", string(env.Data))

	// 其它路由不受点赞预设影响
	w, _ = do(t, stack.api, http.MethodGet, "/api/v1/quotes/"+id, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))

	assert.Equal(t, []string{"like"}, stack.limiters.Names())
}

func TestAPIService_StrictAndGeneralLimiters(t *testing.T) {
	stack := newTestStack(t, `
rateLimits:
  general:
    maxRequests: 50
  strict:
    maxRequests: 2
`)
	createQuote(t, stack.api)
	createQuote(t, stack.api)

	w, env := do(t, stack.api, http.MethodPost, "/api/v1/quotes", map[string]string{"quote": "third", "author": "nobody"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Rate limit exceeded for this endpoint. Please wait before trying again.", env.Message)

	// 通用预设作用于读接口，拒绝的写请求仍计入通用窗口
	w, _ = do(t, stack.api, http.MethodGet, "/api/v1/quotes", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "50", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "46", w.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, []string{"general", "like", "strict"}, stack.limiters.Names())
}

func TestAPIService_DisabledPresets(t *testing.T) {
	stack := newTestStack(t, `
rateLimits:
  like:
    enabled: false
`)
	id := createQuote(t, stack.api)

	for i := 0; i < 15; i++ {
		w, _ := do(t, stack.api, http.MethodPost, "/api/v1/quotes/"+id+"/like", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Empty(t, stack.limiters.Names())
}

func TestAPIService_TrustProxyKeys(t *testing.T) {
	stack := newTestStack(t, `
httpServer:
  api:
    trustProxy: true
rateLimits:
  like:
    maxRequests: 1
`)
	id := createQuote(t, stack.api)
	path := "/api/v1/quotes/" + id + "/like"

	w, _ := do(t, stack.api, http.MethodPost, path, nil, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"})
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, stack.api, http.MethodPost, path, nil, map[string]string{"X-Forwarded-For": "203.0.113.7"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	w, _ = do(t, stack.api, http.MethodPost, path, nil, map[string]string{"X-Forwarded-For": "203.0.113.8"})
	assert.Equal(t, http.StatusOK, w.Code)

	entries := stack.limiters.Entries()["like"]
	assert.Contains(t, entries, "rate_limit:203.0.113.7")
	assert.Contains(t, entries, "rate_limit:203.0.113.8")
}

func TestAPIService_Throttle(t *testing.T) {
	stack := newTestStack(t, `
httpServer:
  api:
    throttle:
      perSecond: 1
      burst: 2
`)

	for i := 0; i < 2; i++ {
		w, _ := do(t, stack.api, http.MethodGet, "/api/version", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, env := do(t, stack.api, http.MethodGet, "/api/version", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "THROTTLED", env.Error.Code)
}

func TestAPIService_RequestMetrics(t *testing.T) {
	stack := newTestStack(t, "{}")

	do(t, stack.api, http.MethodGet, "/api/health", nil, nil)
	do(t, stack.api, http.MethodGet, "/api/v1/quotes/not-a-uuid", nil, nil)

	families, err := stack.registry.GetRegistry().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "quotes_http_requests_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range m.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			counts[labels["route"]+" "+labels["status_code"]] += m.GetCounter().GetValue()
		}
	}

	assert.Equal(t, float64(1), counts["/api/health 200"])
	assert.Equal(t, float64(1), counts["/api/v1/quotes/:id 400"])
}

func TestNewAPIService_InvalidThrottle(t *testing.T) {
	cfg := loadConfig(t, "{}")
	cfg.HTTPServer.API.Throttle = &config.ThrottleConfig{PerSecond: 0, Burst: 1}
	logger := logr.Discard()

	_, err := NewAPIService(cfg, quote.NewMemoryRepository(), ratelimit.NewRegistry(), nil, &logger)
	assert.ErrorIs(t, err, ratelimit.ErrInvalidPerSecond)
}
