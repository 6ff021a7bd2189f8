package constants

const (
	// Command line flags - 命令行标志

	// FlagConfig 配置文件路径参数名
	FlagConfig = "config"

	// FlagJSON JSON日志格式参数名
	FlagJSON = "json"

	// FlagRelease 发布模式参数名
	FlagRelease = "release"

	// Flag short aliases - 短参数别名

	// FlagConfigShort 配置文件路径短参数
	FlagConfigShort = "c"

	// FlagJSONShort JSON日志格式短参数
	FlagJSONShort = "j"

	// FlagReleaseShort 发布模式短参数
	FlagReleaseShort = "r"
)

const (
	// Limits and constraints - 限制和约束

	// MinTimeout 最小超时时间（毫秒）
	MinTimeout = 1000

	// MaxTimeout 最大超时时间（毫秒，24小时）
	MaxTimeout = 86400000

	// MinPort 最小端口号
	MinPort = 1

	// MaxPort 最大端口号
	MaxPort = 65535

	// MinWindowMs 最小限流窗口（毫秒）
	MinWindowMs = 1

	// MaxWindowMs 最大限流窗口（毫秒，24小时）
	MaxWindowMs = 86400000

	// MinMaxRequests 窗口内最小请求上限
	MinMaxRequests = 1

	// MaxMaxRequests 窗口内最大请求上限
	MaxMaxRequests = 1000000

	// MaxQuoteTextLength 名言正文最大长度
	MaxQuoteTextLength = 1000

	// MaxQuoteAuthorLength 作者名最大长度
	MaxQuoteAuthorLength = 200

	// MaxQuoteTagsLength 标签字段最大长度
	MaxQuoteTagsLength = 500
)

const (
	// Default configuration values - 配置默认值

	// DefaultAddress 默认绑定地址
	DefaultAddress = "0.0.0.0"

	// DefaultAPIPort 默认API端口
	DefaultAPIPort = 3000

	// DefaultAdminPort 默认管理端口
	DefaultAdminPort = 9000

	// DefaultIdleTimeout 默认空闲超时（毫秒）
	DefaultIdleTimeout = 60000

	// DefaultReadTimeout 默认读取超时（毫秒）
	DefaultReadTimeout = 30000

	// DefaultWriteTimeout 默认写入超时（毫秒）
	DefaultWriteTimeout = 30000

	// DefaultWindowMs 默认限流窗口（毫秒，1分钟）
	DefaultWindowMs = 60000

	// LikeMaxRequests 点赞类接口每窗口请求上限
	LikeMaxRequests = 10

	// GeneralMaxRequests 通用接口每窗口请求上限
	GeneralMaxRequests = 100

	// StrictMaxRequests 严格接口每窗口请求上限
	StrictMaxRequests = 5

	// DefaultThrottlePerSecond 默认令牌桶每秒请求数
	DefaultThrottlePerSecond = 50

	// DefaultThrottleBurst 默认令牌桶突发请求数
	DefaultThrottleBurst = 100

	// DefaultStoreShards 默认限流存储分片数
	DefaultStoreShards = 16

	// DefaultPageLimit 默认分页大小
	DefaultPageLimit = 20

	// MaxPageLimit 最大分页大小
	MaxPageLimit = 100
)
