package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector 代表指标收集器接口，由业务接口服务器、管理服务器、限流中间件和名言服务共用
type MetricsCollector interface {
	// HTTP 服务器指标

	// RecordResponse 记录一次 HTTP 响应
	// server: 服务器名称（api, admin）
	// method: HTTP 方法
	// route: gin 路由模板，例如 /api/v1/quotes/:id，未匹配时为 unmatched
	// statusCode: HTTP 状态码
	// duration: 请求处理耗时
	RecordResponse(server, method, route string, statusCode int, duration time.Duration)

	// 限流指标

	// RecordRateLimitAdmission 记录一次限流放行
	// limiter: 限流器名称（like, general, strict 或自定义名称）
	RecordRateLimitAdmission(limiter string)

	// RecordRateLimitRejection 记录一次限流拒绝
	// limiter: 限流器名称
	// limitType: 限流类型（window, throttle）
	RecordRateLimitRejection(limiter, limitType string)

	// RecordRateLimitEntries 设置限流器当前跟踪的客户端数
	// limiter: 限流器名称
	// entries: 存储中的记录数
	RecordRateLimitEntries(limiter string, entries int)

	// 业务指标

	// RecordQuoteOperation 记录一次名言操作
	// operation: 操作名称（create, update, delete, like, unlike ...）
	// result: 操作结果（success, not_found, invalid, error）
	RecordQuoteOperation(operation, result string)

	// 工具方法

	// GetRegistry 获取指标所在的 Prometheus 注册器
	GetRegistry() *prometheus.Registry

	// Name 获取收集器类型名称（prometheus, noop）
	Name() string

	// Close 注销指标并释放资源
	Close() error
}
