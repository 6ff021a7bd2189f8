package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// NewCollector 按配置创建收集器，prometheus 类型的指标注册到 registry 上
func NewCollector(config *Config, registry *prometheus.Registry) (MetricsCollector, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if !config.Enabled || config.Type == NoopType {
		return NewNoopCollector(), nil
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return NewPrometheusCollector(config, registry)
}

// prometheusCollector 将请求、限流与名言操作记录为 Prometheus 指标
// Vec 类型自身并发安全，不需要额外加锁
type prometheusCollector struct {
	registry *prometheus.Registry
	owned    []prometheus.Collector

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	admitted   *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	entries    *prometheus.GaugeVec
	operations *prometheus.CounterVec
}

// NewPrometheusCollector 在 registry 上注册全部指标，任一指标重名即返回错误
func NewPrometheusCollector(config *Config, registry *prometheus.Registry) (MetricsCollector, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	if registry == nil {
		return nil, ErrNilRegistry
	}

	p := config.prefix() + "_"
	c := &prometheusCollector{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: p + "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"server", "method", "route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    p + "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: durationBuckets,
		}, []string{"server", "method", "route"}),
		admitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: p + "rate_limit_admissions_total",
			Help: "Total number of requests admitted by a rate limiter",
		}, []string{"limiter"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: p + "rate_limit_rejections_total",
			Help: "Total number of rate limit rejections",
		}, []string{"limiter", "limit_type"}),
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: p + "rate_limit_entries",
			Help: "Number of client keys tracked by a rate limiter",
		}, []string{"limiter"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: p + "quote_operations_total",
			Help: "Total number of quote operations",
		}, []string{"operation", "result"}),
	}

	for _, m := range []prometheus.Collector{c.requests, c.latency, c.admitted, c.rejected, c.entries, c.operations} {
		if err := registry.Register(m); err != nil {
			c.Close()
			return nil, err
		}
		c.owned = append(c.owned, m)
	}

	return c, nil
}

// RecordResponse 记录请求数与耗时
func (c *prometheusCollector) RecordResponse(server, method, route string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(server, method, route, strconv.Itoa(statusCode)).Inc()
	c.latency.WithLabelValues(server, method, route).Observe(duration.Seconds())
}

// RecordRateLimitAdmission 记录限流放行
func (c *prometheusCollector) RecordRateLimitAdmission(limiter string) {
	c.admitted.WithLabelValues(limiter).Inc()
}

// RecordRateLimitRejection 记录限流拒绝
func (c *prometheusCollector) RecordRateLimitRejection(limiter, limitType string) {
	c.rejected.WithLabelValues(limiter, limitType).Inc()
}

// RecordRateLimitEntries 设置限流记录数
func (c *prometheusCollector) RecordRateLimitEntries(limiter string, entries int) {
	c.entries.WithLabelValues(limiter).Set(float64(entries))
}

// RecordQuoteOperation 记录名言操作
func (c *prometheusCollector) RecordQuoteOperation(operation, result string) {
	c.operations.WithLabelValues(operation, result).Inc()
}

// GetRegistry 获取 Prometheus 注册器
func (c *prometheusCollector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Name 获取收集器名称
func (c *prometheusCollector) Name() string {
	return PrometheusType
}

// Close 注销本收集器注册过的指标
func (c *prometheusCollector) Close() error {
	for _, m := range c.owned {
		c.registry.Unregister(m)
	}
	c.owned = nil
	return nil
}
