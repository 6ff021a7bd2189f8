package constants

const (
	// Error messages - 错误消息

	// ErrMsgServerAlreadyStarted 服务器已启动错误消息
	ErrMsgServerAlreadyStarted = "server already started"

	// ErrMsgQuoteNotFound 名言不存在错误消息
	ErrMsgQuoteNotFound = "quote not found"

	// ErrMsgInvalidUUID 非法UUID错误消息
	ErrMsgInvalidUUID = "Invalid UUID format"

	// ErrMsgInvalidQuote 名言参数非法错误消息
	ErrMsgInvalidQuote = "invalid quote payload"

	// ErrMsgUnknownLimiter 未知限流器错误消息
	ErrMsgUnknownLimiter = "unknown rate limiter"

	// ErrMsgEmptyLimiterKey 空限流键错误消息
	ErrMsgEmptyLimiterKey = "rate limit key cannot be empty"

	// ErrMsgInvalidPerSecond 非法令牌速率错误消息
	ErrMsgInvalidPerSecond = "perSecond must be greater than 0"

	// ErrMsgInvalidBurst 非法突发上限错误消息
	ErrMsgInvalidBurst = "burst must be greater than 0"
)

const (
	// Rate limit messages - 限流提示消息

	// MsgRateLimitDefault 默认限流提示
	MsgRateLimitDefault = "Too many requests, please try again later."

	// MsgRateLimitLike 点赞接口限流提示
	MsgRateLimitLike = "Too many like/unlike requests. Please wait before trying again."

	// MsgRateLimitGeneral 通用接口限流提示
	MsgRateLimitGeneral = "Too many requests. Please wait before trying again."

	// MsgRateLimitStrict 严格接口限流提示
	MsgRateLimitStrict = "Rate limit exceeded for this endpoint. Please wait before trying again."

	// MsgThrottled 令牌桶限流提示
	MsgThrottled = "Request rate too high. Please slow down."
)

const (
	// Limit types for metrics - 指标限流类型

	// LimitTypeWindow 固定窗口限流
	LimitTypeWindow = "window"

	// LimitTypeThrottle 令牌桶限流
	LimitTypeThrottle = "throttle"
)
