package ratelimit

import (
	"errors"

	"github.com/go-logr/logr"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
)

// 工厂相关错误定义
var (
	ErrInvalidPerSecond = errors.New(constants.ErrMsgInvalidPerSecond)
	ErrInvalidBurst     = errors.New(constants.ErrMsgInvalidBurst)
)

// RateLimiterFactory 代表限流中间件工厂接口
// 每次调用构造一个新的限流器实例并返回绑定该实例的中间件，调用方在路由装配时持有它
type RateLimiterFactory interface {
	// ForLikeEndpoints 点赞/取消点赞接口预设
	ForLikeEndpoints() *Middleware

	// ForGeneralAPI 通用接口预设
	ForGeneralAPI() *Middleware

	// ForStrictEndpoints 严格接口预设
	ForStrictEndpoints() *Middleware

	// Custom 使用调用方提供的配置
	Custom(name string, cfg Config) *Middleware

	// CreateThrottle 创建令牌桶节流中间件
	CreateThrottle(perSecond float64, burst int) (*ThrottleMiddleware, error)
}

// FactoryOption 代表工厂构造选项
type FactoryOption func(*rateLimitFactory)

// WithKeyFunc 设置限流键提取函数
func WithKeyFunc(keyFunc KeyFunc) FactoryOption {
	return func(f *rateLimitFactory) {
		if keyFunc != nil {
			f.keyFunc = keyFunc
		}
	}
}

// WithCollector 设置指标收集器
func WithCollector(collector metrics.MetricsCollector) FactoryOption {
	return func(f *rateLimitFactory) {
		if collector != nil {
			f.collector = collector
		}
	}
}

// WithRegistry 设置中间件注册表，创建的中间件会登记到其中
func WithRegistry(registry *Registry) FactoryOption {
	return func(f *rateLimitFactory) {
		f.registry = registry
	}
}

// WithPreset 覆盖指定预设的配置
func WithPreset(name string, cfg Config) FactoryOption {
	return func(f *rateLimitFactory) {
		f.presets[name] = cfg
	}
}

// WithLimiterOptions 设置传给每个限流器的构造选项
func WithLimiterOptions(opts ...Option) FactoryOption {
	return func(f *rateLimitFactory) {
		f.limiterOpts = append(f.limiterOpts, opts...)
	}
}

// rateLimitFactory 代表限流中间件工厂实现
type rateLimitFactory struct {
	logger      *logr.Logger
	keyFunc     KeyFunc
	collector   metrics.MetricsCollector
	registry    *Registry
	presets     map[string]Config
	limiterOpts []Option
}

// DefaultPresets 返回内置预设配置
func DefaultPresets() map[string]Config {
	return map[string]Config{
		constants.LimiterLike: {
			WindowMs:    constants.DefaultWindowMs,
			MaxRequests: constants.LikeMaxRequests,
			Message:     constants.MsgRateLimitLike,
		},
		constants.LimiterGeneral: {
			WindowMs:    constants.DefaultWindowMs,
			MaxRequests: constants.GeneralMaxRequests,
			Message:     constants.MsgRateLimitGeneral,
		},
		constants.LimiterStrict: {
			WindowMs:    constants.DefaultWindowMs,
			MaxRequests: constants.StrictMaxRequests,
			Message:     constants.MsgRateLimitStrict,
		},
	}
}

// NewFactory 创建新的限流中间件工厂实例
func NewFactory(logger *logr.Logger, opts ...FactoryOption) RateLimiterFactory {
	f := &rateLimitFactory{
		logger:    logger,
		keyFunc:   NewKeyFunc(false),
		collector: metrics.NewNoopCollector(),
		presets:   DefaultPresets(),
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// ForLikeEndpoints 点赞/取消点赞接口预设
func (f *rateLimitFactory) ForLikeEndpoints() *Middleware {
	return f.Custom(constants.LimiterLike, f.presets[constants.LimiterLike])
}

// ForGeneralAPI 通用接口预设
func (f *rateLimitFactory) ForGeneralAPI() *Middleware {
	return f.Custom(constants.LimiterGeneral, f.presets[constants.LimiterGeneral])
}

// ForStrictEndpoints 严格接口预设
func (f *rateLimitFactory) ForStrictEndpoints() *Middleware {
	return f.Custom(constants.LimiterStrict, f.presets[constants.LimiterStrict])
}

// Custom 使用调用方提供的配置构造新的限流器
func (f *rateLimitFactory) Custom(name string, cfg Config) *Middleware {
	if name == "" {
		name = constants.LimiterCustom
	}

	m := NewMiddleware(name, NewWindowLimiter(cfg, f.limiterOpts...), f.keyFunc, f.collector, f.logger)

	if f.registry != nil {
		if err := f.registry.Register(m); err != nil && f.logger != nil {
			f.logger.Error(err, "rate limiter not registered for admin access", "limiter", name)
		}
	}

	return m
}

// CreateThrottle 根据配置创建令牌桶节流中间件
func (f *rateLimitFactory) CreateThrottle(perSecond float64, burst int) (*ThrottleMiddleware, error) {
	if perSecond <= 0 {
		return nil, ErrInvalidPerSecond
	}
	if burst <= 0 {
		return nil, ErrInvalidBurst
	}

	return NewThrottleMiddleware(NewTokenBucket(perSecond, burst), f.keyFunc, f.collector, f.logger), nil
}
