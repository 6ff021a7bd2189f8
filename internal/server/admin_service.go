package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
	"github.com/shengyanli1982/quotes-go/internal/ratelimit"
	"github.com/shengyanli1982/quotes-go/internal/response"
)

// AdminService 代表管理服务，提供监控指标与限流记录的查询和重置
// health check 通过 /ping 端点由 orbit 框架自动提供
type AdminService struct {
	*serviceState
	logger          *logr.Logger
	limiters        *ratelimit.Registry      // 限流中间件注册表
	metricsRegistry *metrics.MetricsRegistry // 指标注册器
	collector       metrics.MetricsCollector
}

// NewAdminService 创建新的管理服务实例
func NewAdminService(limiters *ratelimit.Registry, metricsRegistry *metrics.MetricsRegistry, collector metrics.MetricsCollector, logger *logr.Logger) *AdminService {
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}

	return &AdminService{
		serviceState:    newServiceState(constants.ServerAdmin, logger),
		logger:          logger,
		limiters:        limiters,
		metricsRegistry: metricsRegistry,
		collector:       collector,
	}
}

// RegisterGroup 注册路由组和处理器
func (s *AdminService) RegisterGroup(g *gin.RouterGroup) {
	// 统一指标端点（替代 orbit 框架的默认 /metrics）
	g.GET(constants.RouteMetrics, s.handleMetrics)

	limits := g.Group(constants.RouteRateLimits, requestMetrics(s.collector, constants.ServerAdmin))
	limits.GET("/entries", s.handleEntries)
	limits.GET("/:limiter/status", s.handleStatus)
	limits.DELETE("/:limiter", s.handleReset)
}

// handleMetrics 处理统一指标请求
func (s *AdminService) handleMetrics(c *gin.Context) {
	if s.metricsRegistry == nil {
		response.Error(response.CodeNotFound, "metrics registry not available").JSON(c, http.StatusNotFound)
		return
	}

	registry := s.metricsRegistry.GetRegistry()
	if registry == nil {
		response.InternalServerError(c, "metrics registry not initialized")
		return
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})

	// 将 Gin 上下文转换为标准 HTTP 处理器
	handler.ServeHTTP(c.Writer, c.Request)
}

// handleEntries 返回所有限流器的记录快照，同时刷新记录数指标
func (s *AdminService) handleEntries(c *gin.Context) {
	entries := s.limiters.Entries()
	for name, limiterEntries := range entries {
		s.collector.RecordRateLimitEntries(name, len(limiterEntries))
	}

	response.OK(c, entries)
}

// handleStatus 返回指定限流器中 key 的状态，没有记录时 data 为 null
func (s *AdminService) handleStatus(c *gin.Context) {
	status, err := s.limiters.Status(c.Param("limiter"), limiterKey(c.Query("key")))
	if err != nil {
		s.writeError(c, err)
		return
	}

	response.OK(c, status)
}

// handleReset 删除指定限流器中 key 的记录
func (s *AdminService) handleReset(c *gin.Context) {
	name := c.Param("limiter")
	key := limiterKey(c.Query("key"))

	if err := s.limiters.Reset(name, key); err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info("Rate limit entry reset", "limiter", name, "key", key)
	response.Success(nil).WithMessage("Rate limit entry reset").JSON(c, http.StatusOK)
}

func (s *AdminService) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ratelimit.ErrUnknownLimiter):
		response.NotFound(c, err.Error())
	case errors.Is(err, ratelimit.ErrEmptyLimiterKey):
		response.BadRequest(c, err.Error())
	default:
		s.logger.Error(err, "Rate limit admin request failed", "path", c.Request.URL.Path)
		response.InternalServerError(c, err.Error())
	}
}

// limiterKey 补全存储键前缀，允许直接传入客户端地址
func limiterKey(key string) string {
	if key == "" || strings.HasPrefix(key, constants.RateLimitKeyPrefix) {
		return key
	}
	return constants.RateLimitKeyPrefix + key
}
