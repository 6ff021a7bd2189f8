package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestDefaultConfig 测试默认配置可以直接通过校验
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Type != PrometheusType || !config.Enabled || config.Namespace != "quotes" {
		t.Errorf("Unexpected default config %+v", config)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got %v", err)
	}
	if config.prefix() != "quotes" {
		t.Errorf("Expected prefix 'quotes', got %s", config.prefix())
	}
}

// TestConfig_Validate 测试各类非法配置
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		is     error
	}{
		{name: "unknown type", config: Config{Type: "statsd", Namespace: "quotes"}, is: ErrInvalidMetricsType},
		{name: "empty type", config: Config{Namespace: "quotes"}, is: ErrInvalidMetricsType},
		{name: "empty namespace", config: Config{Type: PrometheusType}, is: ErrInvalidConfig},
		{name: "dash in namespace", config: Config{Type: PrometheusType, Namespace: "be-quotes"}, is: ErrInvalidConfig},
		{name: "dash in subsystem", config: Config{Type: PrometheusType, Namespace: "quotes", Subsystem: "a-b"}, is: ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !errors.Is(err, tt.is) || !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected %v, got %v", tt.is, err)
			}
		})
	}

	withSubsystem := Config{Type: PrometheusType, Namespace: "quotes", Subsystem: "api_v1"}
	if err := withSubsystem.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if withSubsystem.prefix() != "quotes_api_v1" {
		t.Errorf("Unexpected prefix %s", withSubsystem.prefix())
	}
}

// TestNewCollector 测试按类型选择收集器实现
func TestNewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()

	if _, err := NewCollector(nil, registry); err != ErrNilConfig {
		t.Errorf("Expected ErrNilConfig, got %v", err)
	}

	disabled := DefaultConfig()
	disabled.Enabled = false
	for _, cfg := range []*Config{disabled, {Type: NoopType, Enabled: true}} {
		collector, err := NewCollector(cfg, registry)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if collector.Name() != NoopType {
			t.Errorf("Expected noop collector, got %s", collector.Name())
		}
	}

	if _, err := NewCollector(&Config{Type: "statsd", Enabled: true, Namespace: "quotes"}, registry); !errors.Is(err, ErrInvalidMetricsType) {
		t.Errorf("Expected ErrInvalidMetricsType, got %v", err)
	}

	collector, err := NewCollector(DefaultConfig(), registry)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if collector.Name() != PrometheusType || collector.GetRegistry() != registry {
		t.Error("Expected a prometheus collector on the given registry")
	}
}
