package constants

const (
	// HTTP headers - HTTP头部

	// HeaderRateLimitLimit 窗口请求上限头部
	HeaderRateLimitLimit = "X-RateLimit-Limit"

	// HeaderRateLimitRemaining 窗口剩余请求数头部
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"

	// HeaderRateLimitReset 窗口重置时间头部
	HeaderRateLimitReset = "X-RateLimit-Reset"

	// HeaderRetryAfter 重试等待秒数头部
	HeaderRetryAfter = "Retry-After"

	// HeaderXForwardedFor X-Forwarded-For头部名称
	HeaderXForwardedFor = "X-Forwarded-For"

	// HeaderXRealIP X-Real-IP头部名称
	HeaderXRealIP = "X-Real-IP"
)

const (
	// Rate limit keys - 限流键

	// RateLimitKeyPrefix 限流键前缀
	RateLimitKeyPrefix = "rate_limit:"

	// UnknownClientAddress 无法识别客户端地址时的占位值
	UnknownClientAddress = "unknown"
)

const (
	// Limiter names - 限流器名称

	// LimiterLike 点赞接口限流器
	LimiterLike = "like"

	// LimiterGeneral 通用接口限流器
	LimiterGeneral = "general"

	// LimiterStrict 严格接口限流器
	LimiterStrict = "strict"

	// LimiterCustom 自定义限流器
	LimiterCustom = "custom"
)

const (
	// Route paths - 路由路径

	// RouteAPIPrefix API 全局前缀
	RouteAPIPrefix = "/api"

	// RouteQuotes 名言资源路径
	RouteQuotes = "/v1/quotes"

	// RouteHealth 健康检查路径
	RouteHealth = "/health"

	// RouteVersion 版本信息路径
	RouteVersion = "/version"

	// RouteMetrics 指标路径
	RouteMetrics = "/metrics"

	// RouteRateLimits 限流管理路径
	RouteRateLimits = "/ratelimit"

	// RouteUnmatched 未匹配路由的指标标签
	RouteUnmatched = "unmatched"
)

const (
	// Server labels - 服务器标签

	// ServerAPI 业务接口服务器
	ServerAPI = "api"

	// ServerAdmin 管理服务器
	ServerAdmin = "admin"
)

// ISOTimeLayout 毫秒精度、Z 结尾的 UTC 时间格式
const ISOTimeLayout = "2006-01-02T15:04:05.000Z"

const (
	// Health status - 健康状态

	// HealthStatusHealthy 健康
	HealthStatusHealthy = "healthy"

	// HealthStatusUnhealthy 不健康
	HealthStatusUnhealthy = "unhealthy"

	// MemoryUnhealthyPercentage 堆内存使用率超过该值视为不健康
	MemoryUnhealthyPercentage = 90.0
)
