package server

import (
	"fmt"
	"math"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/shengyanli1982/quotes-go/internal/config"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
	"github.com/shengyanli1982/quotes-go/internal/quote"
	"github.com/shengyanli1982/quotes-go/internal/ratelimit"
)

// CheckResult 代表单项检查结果
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// MemoryCheck 代表堆内存检查结果（单位：MB）
type MemoryCheck struct {
	Status     string  `json:"status"`
	Used       uint64  `json:"used"`
	Total      uint64  `json:"total"`
	Percentage float64 `json:"percentage"`
}

// HealthChecks 代表健康检查的各个子项
type HealthChecks struct {
	Application CheckResult `json:"application"`
	Memory      MemoryCheck `json:"memory"`
}

// HealthStatus 代表健康检查响应
type HealthStatus struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Uptime    int64        `json:"uptime"`
	Checks    HealthChecks `json:"checks"`
}

// VersionInfo 代表版本信息响应
type VersionInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// APIService 代表业务接口服务，挂载在 /api 前缀下
type APIService struct {
	*serviceState
	config    *config.Config
	logger    *logr.Logger
	collector metrics.MetricsCollector
	quotes    *quote.Handler
	throttle  *ratelimit.ThrottleMiddleware
	startTime time.Time
}

// NewAPIService 创建新的业务接口服务实例
// 按配置装配限流中间件：like 预设作用于点赞接口，strict 预设作用于写接口，general 预设作用于全部名言接口
func NewAPIService(cfg *config.Config, repo quote.Repository, limiters *ratelimit.Registry, collector metrics.MetricsCollector, logger *logr.Logger) (*APIService, error) {
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}

	api := &cfg.HTTPServer.API
	opts := []ratelimit.FactoryOption{
		ratelimit.WithKeyFunc(ratelimit.NewKeyFunc(api.TrustProxy)),
		ratelimit.WithCollector(collector),
		ratelimit.WithRegistry(limiters),
	}
	presets := map[string]*config.WindowConfig{
		constants.LimiterLike:    cfg.RateLimits.Like,
		constants.LimiterGeneral: cfg.RateLimits.General,
		constants.LimiterStrict:  cfg.RateLimits.Strict,
	}
	for name, window := range presets {
		if window != nil {
			opts = append(opts, ratelimit.WithPreset(name, toLimiterConfig(window)))
		}
	}
	factory := ratelimit.NewFactory(logger, opts...)

	var limits quote.RouteLimits
	if cfg.RateLimits.Like.IsEnabled() {
		limits.Like = append(limits.Like, factory.ForLikeEndpoints().Handler())
	}
	if cfg.RateLimits.Strict.IsEnabled() {
		limits.Write = append(limits.Write, factory.ForStrictEndpoints().Handler())
	}
	if cfg.RateLimits.General.IsEnabled() {
		limits.Group = append(limits.Group, factory.ForGeneralAPI().Handler())
	}

	s := &APIService{
		serviceState: newServiceState(constants.ServerAPI, logger),
		config:       cfg,
		logger:       logger,
		collector:    collector,
		quotes:       quote.NewHandler(quote.NewService(repo, collector, logger), limits, logger),
		startTime:    time.Now(),
	}

	if api.Throttle != nil {
		throttle, err := factory.CreateThrottle(float64(api.Throttle.PerSecond), api.Throttle.Burst)
		if err != nil {
			return nil, fmt.Errorf("failed to create api throttle: %w", err)
		}
		s.throttle = throttle
	}

	return s, nil
}

// toLimiterConfig 将配置段转换为限流器配置
func toLimiterConfig(window *config.WindowConfig) ratelimit.Config {
	return ratelimit.Config{
		WindowMs:    window.WindowMs,
		MaxRequests: window.MaxRequests,
		Message:     window.Message,
	}
}

// RegisterGroup 实现 orbit.Service 接口，注册到 orbit 引擎
func (s *APIService) RegisterGroup(g *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{requestMetrics(s.collector, constants.ServerAPI)}
	if s.throttle != nil {
		handlers = append(handlers, s.throttle.Handler())
	}

	api := g.Group(constants.RouteAPIPrefix, handlers...)
	api.GET(constants.RouteHealth, s.handleHealth)
	api.GET(constants.RouteVersion, s.handleVersion)

	s.quotes.RegisterGroup(api)
}

// handleHealth 处理健康检查请求
func (s *APIService) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.healthStatus(time.Now()))
}

// healthStatus 汇总应用与内存检查
func (s *APIService) healthStatus(now time.Time) HealthStatus {
	application := s.checkApplication(now)
	memory := checkMemory()

	status := constants.HealthStatusHealthy
	if application.Status != constants.HealthStatusHealthy || memory.Status != constants.HealthStatusHealthy {
		status = constants.HealthStatusUnhealthy
	}

	return HealthStatus{
		Status:    status,
		Timestamp: now.UTC().Format(constants.ISOTimeLayout),
		Uptime:    int64(math.Round(now.Sub(s.startTime).Seconds())),
		Checks: HealthChecks{
			Application: application,
			Memory:      memory,
		},
	}
}

// checkApplication 检查运行时长是否合法
func (s *APIService) checkApplication(now time.Time) CheckResult {
	if now.Before(s.startTime) {
		return CheckResult{Status: constants.HealthStatusUnhealthy, Message: "Invalid uptime calculation"}
	}
	return CheckResult{Status: constants.HealthStatusHealthy}
}

// checkMemory 检查堆内存使用率
func checkMemory() MemoryCheck {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return memoryCheck(stats.HeapAlloc, stats.HeapSys)
}

func memoryCheck(used, total uint64) MemoryCheck {
	var percentage float64
	if total > 0 {
		percentage = float64(used) / float64(total) * 100
	}

	status := constants.HealthStatusHealthy
	if percentage > constants.MemoryUnhealthyPercentage {
		status = constants.HealthStatusUnhealthy
	}

	const mb = 1024 * 1024
	return MemoryCheck{
		Status:     status,
		Used:       uint64(math.Round(float64(used) / mb)),
		Total:      uint64(math.Round(float64(total) / mb)),
		Percentage: math.Round(percentage*100) / 100,
	}
}

// handleVersion 处理版本信息请求
func (s *APIService) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionInfo{
		Name:        s.config.App.Name,
		Version:     s.config.App.Version,
		Description: s.config.App.Description,
	})
}
