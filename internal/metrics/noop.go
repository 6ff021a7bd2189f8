package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// noopCollector 空操作指标收集器，metrics 关闭或类型为 noop 时使用
type noopCollector struct {
	registry *prometheus.Registry
}

// NewNoopCollector 创建新的空操作指标收集器实例
// 所有记录方法直接丢弃数据，GetRegistry 返回一个永远为空的注册器
func NewNoopCollector() MetricsCollector {
	return &noopCollector{registry: prometheus.NewRegistry()}
}

// RecordResponse 丢弃 HTTP 响应记录
func (*noopCollector) RecordResponse(string, string, string, int, time.Duration) {}

// RecordRateLimitAdmission 丢弃限流放行记录
func (*noopCollector) RecordRateLimitAdmission(string) {}

// RecordRateLimitRejection 丢弃限流拒绝记录
func (*noopCollector) RecordRateLimitRejection(string, string) {}

// RecordRateLimitEntries 丢弃记录数
func (*noopCollector) RecordRateLimitEntries(string, int) {}

// RecordQuoteOperation 丢弃名言操作记录
func (*noopCollector) RecordQuoteOperation(string, string) {}

// GetRegistry 返回空注册器
func (c *noopCollector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Name 获取收集器名称
func (*noopCollector) Name() string {
	return NoopType
}

// Close 无需清理
func (*noopCollector) Close() error {
	return nil
}
