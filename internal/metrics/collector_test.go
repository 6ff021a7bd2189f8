package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// createTestCollector 创建用于测试的 Prometheus 收集器
func createTestCollector(t *testing.T, namespace, subsystem string) MetricsCollector {
	config := &Config{
		Type:      "prometheus",
		Enabled:   true,
		Namespace: namespace,
		Subsystem: subsystem,
	}

	collector, err := NewPrometheusCollector(config, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("Failed to create test collector: %v", err)
	}
	return collector
}

// findFamily 按名称后缀查找指标族
func findFamily(t *testing.T, collector MetricsCollector, suffix string) *dto.MetricFamily {
	metricFamilies, err := collector.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	for _, mf := range metricFamilies {
		if strings.HasSuffix(mf.GetName(), suffix) {
			return mf
		}
	}
	return nil
}

// TestNewPrometheusCollector 测试创建使用指定注册器的 Prometheus 收集器
func TestNewPrometheusCollector(t *testing.T) {
	collector := createTestCollector(t, "test", "")
	if collector.Name() != "prometheus" {
		t.Errorf("Expected collector name to be 'prometheus', got %s", collector.Name())
	}
}

// TestNewPrometheusCollector_NilArgs 测试空配置与空注册器
func TestNewPrometheusCollector_NilArgs(t *testing.T) {
	if _, err := NewPrometheusCollector(nil, prometheus.NewRegistry()); err != ErrNilConfig {
		t.Errorf("Expected ErrNilConfig, got %v", err)
	}
	if _, err := NewPrometheusCollector(DefaultConfig(), nil); err != ErrNilRegistry {
		t.Errorf("Expected ErrNilRegistry, got %v", err)
	}
}

// TestNewPrometheusCollector_DuplicateRegistration 测试同一注册器重复注册
func TestNewPrometheusCollector_DuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	if _, err := NewPrometheusCollector(DefaultConfig(), registry); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := NewPrometheusCollector(DefaultConfig(), registry); err == nil {
		t.Error("Expected error for duplicate registration, got nil")
	}
}

// TestPrometheusCollector_HTTPMetrics 测试 HTTP 指标收集
func TestPrometheusCollector_HTTPMetrics(t *testing.T) {
	collector := createTestCollector(t, "test", "")

	collector.RecordResponse("api", "GET", "/api/v1/quotes", 200, 10*time.Millisecond)
	collector.RecordResponse("api", "GET", "/api/v1/quotes", 200, 20*time.Millisecond)

	mf := findFamily(t, collector, "http_requests_total")
	if mf == nil {
		t.Fatal("Expected to find http_requests_total metric")
	}
	if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("Expected counter value 2, got %v", got)
	}

	if findFamily(t, collector, "http_request_duration_seconds") == nil {
		t.Error("Expected to find http_request_duration_seconds metric")
	}
}

// TestPrometheusCollector_RateLimitMetrics 测试限流指标收集
func TestPrometheusCollector_RateLimitMetrics(t *testing.T) {
	collector := createTestCollector(t, "test", "")

	collector.RecordRateLimitAdmission("like")
	collector.RecordRateLimitRejection("like", "window")
	collector.RecordRateLimitRejection("like", "window")
	collector.RecordRateLimitEntries("like", 7)

	admissions := findFamily(t, collector, "rate_limit_admissions_total")
	if admissions == nil {
		t.Fatal("Expected to find rate_limit_admissions_total metric")
	}
	if got := admissions.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Errorf("Expected 1 admission, got %v", got)
	}

	rejections := findFamily(t, collector, "rate_limit_rejections_total")
	if rejections == nil {
		t.Fatal("Expected to find rate_limit_rejections_total metric")
	}
	if got := rejections.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("Expected 2 rejections, got %v", got)
	}

	entries := findFamily(t, collector, "rate_limit_entries")
	if entries == nil {
		t.Fatal("Expected to find rate_limit_entries metric")
	}
	if got := entries.GetMetric()[0].GetGauge().GetValue(); got != 7 {
		t.Errorf("Expected 7 entries, got %v", got)
	}
}

// TestPrometheusCollector_QuoteMetrics 测试业务指标收集
func TestPrometheusCollector_QuoteMetrics(t *testing.T) {
	collector := createTestCollector(t, "test", "")

	collector.RecordQuoteOperation("like", "success")

	if findFamily(t, collector, "quote_operations_total") == nil {
		t.Error("Expected to find quote_operations_total metric")
	}
}

// TestPrometheusCollector_Subsystem 测试子系统前缀
func TestPrometheusCollector_Subsystem(t *testing.T) {
	collector := createTestCollector(t, "quotes", "api")

	collector.RecordRateLimitAdmission("general")

	mf := findFamily(t, collector, "rate_limit_admissions_total")
	if mf == nil {
		t.Fatal("Expected to find rate_limit_admissions_total metric")
	}
	if mf.GetName() != "quotes_api_rate_limit_admissions_total" {
		t.Errorf("Unexpected metric name %s", mf.GetName())
	}
}

// TestPrometheusCollector_Close 测试关闭后指标被注销
func TestPrometheusCollector_Close(t *testing.T) {
	collector := createTestCollector(t, "test", "")
	collector.RecordRateLimitAdmission("like")

	if err := collector.Close(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if findFamily(t, collector, "rate_limit_admissions_total") != nil {
		t.Error("Expected metrics to be unregistered after close")
	}
}

// TestNoopCollector 测试空操作收集器
func TestNoopCollector(t *testing.T) {
	collector := NewNoopCollector()

	collector.RecordResponse("api", "GET", "/", 200, time.Millisecond)
	collector.RecordRateLimitAdmission("like")
	collector.RecordRateLimitRejection("like", "window")
	collector.RecordRateLimitEntries("like", 1)
	collector.RecordQuoteOperation("create", "success")

	metricFamilies, err := collector.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}
	if len(metricFamilies) != 0 {
		t.Errorf("Expected no metrics, got %d", len(metricFamilies))
	}
	if err := collector.Close(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

// BenchmarkPrometheusCollector_RateLimit 限流热路径上的指标开销
func BenchmarkPrometheusCollector_RateLimit(b *testing.B) {
	collector, _ := NewPrometheusCollector(DefaultConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordRateLimitAdmission("like")
	}
}
