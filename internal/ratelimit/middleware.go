package ratelimit

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
	"github.com/shengyanli1982/quotes-go/internal/response"
)

// throttleIdleTimeout 令牌桶中超过该时长未出现的key会被清理
const throttleIdleTimeout = 10 * time.Minute

// Middleware 将固定窗口限流器接入 gin 中间件链
// 每个 Middleware 绑定一个限流器实例，存储在进程生命周期内持续存在
type Middleware struct {
	name      string
	limiter   Limiter
	keyFunc   KeyFunc
	collector metrics.MetricsCollector
	logger    *logr.Logger
	clock     func() time.Time
	enabled   atomic.Bool
}

// NewMiddleware 创建新的限流中间件实例
func NewMiddleware(name string, limiter Limiter, keyFunc KeyFunc, collector metrics.MetricsCollector, logger *logr.Logger) *Middleware {
	if keyFunc == nil {
		keyFunc = NewKeyFunc(false)
	}
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}
	if logger == nil {
		discard := logr.Discard()
		logger = &discard
	}

	m := &Middleware{
		name:      name,
		limiter:   limiter,
		keyFunc:   keyFunc,
		collector: collector,
		logger:    logger,
		clock:     time.Now,
	}
	m.enabled.Store(true)

	return m
}

// Handler 返回 gin 中间件函数
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled.Load() {
			c.Next()
			return
		}

		key := m.keyFunc(c.Request)
		decision := m.limiter.Admit(key, m.clock())
		decision.WriteHeaders(c.Writer.Header())
		// Admit 会清理过期记录并可能新增记录，两条路径都刷新记录数
		m.collector.RecordRateLimitEntries(m.name, m.limiter.Len())

		if !decision.Allowed {
			rejection := decision.Rejection
			m.logger.V(1).Info("rate limit exceeded", "limiter", m.name, "key", key,
				"limit", decision.Limit, "retryAfter", decision.RetryAfter, "path", c.FullPath())
			m.collector.RecordRateLimitRejection(m.name, constants.LimitTypeWindow)

			response.Error(response.CodeRateLimitExceeded, rejection.Message).
				WithDetail(rejection.Detail).
				AbortJSON(c, rejection.StatusCode)
			return
		}

		m.collector.RecordRateLimitAdmission(m.name)
		c.Next()
	}
}

// Name 获取中间件名称
func (m *Middleware) Name() string {
	return m.name
}

// Limiter 获取底层限流器
func (m *Middleware) Limiter() Limiter {
	return m.limiter
}

// Enable 启用限流
func (m *Middleware) Enable() {
	m.enabled.Store(true)
}

// Disable 禁用限流
func (m *Middleware) Disable() {
	m.enabled.Store(false)
}

// IsEnabled 检查是否启用限流
func (m *Middleware) IsEnabled() bool {
	return m.enabled.Load()
}

// ThrottleMiddleware 基于令牌桶的全局节流中间件，不输出 X-RateLimit-* 头
type ThrottleMiddleware struct {
	throttle  Throttle
	keyFunc   KeyFunc
	collector metrics.MetricsCollector
	logger    *logr.Logger
	lastSweep atomic.Int64
}

// NewThrottleMiddleware 创建新的节流中间件实例
func NewThrottleMiddleware(throttle Throttle, keyFunc KeyFunc, collector metrics.MetricsCollector, logger *logr.Logger) *ThrottleMiddleware {
	if keyFunc == nil {
		keyFunc = NewKeyFunc(false)
	}
	if collector == nil {
		collector = metrics.NewNoopCollector()
	}
	if logger == nil {
		discard := logr.Discard()
		logger = &discard
	}

	t := &ThrottleMiddleware{
		throttle:  throttle,
		keyFunc:   keyFunc,
		collector: collector,
		logger:    logger,
	}
	t.lastSweep.Store(time.Now().UnixNano())

	return t
}

// Handler 返回 gin 中间件函数
func (t *ThrottleMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		t.maybeSweep(time.Now())

		key := t.keyFunc(c.Request)
		if t.throttle.Allow(key) {
			c.Next()
			return
		}

		t.logger.V(1).Info("request throttled", "key", key, "path", c.Request.URL.Path)
		t.collector.RecordRateLimitRejection(constants.LimitTypeThrottle, constants.LimitTypeThrottle)

		c.Header(constants.HeaderRetryAfter, strconv.Itoa(1))
		response.Error(response.CodeThrottled, constants.MsgThrottled).
			AbortJSON(c, http.StatusTooManyRequests)
	}
}

// Throttle 获取底层令牌桶
func (t *ThrottleMiddleware) Throttle() Throttle {
	return t.throttle
}

// maybeSweep 距离上次清理超过空闲时长时清理一次，只有一个请求会执行清理
func (t *ThrottleMiddleware) maybeSweep(now time.Time) {
	last := t.lastSweep.Load()
	if now.UnixNano()-last < int64(throttleIdleTimeout) {
		return
	}
	if !t.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	if removed := t.throttle.Sweep(now.Add(-throttleIdleTimeout)); removed > 0 {
		t.logger.V(2).Info("throttle buckets swept", "removed", removed)
	}
}
