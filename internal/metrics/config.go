package metrics

import (
	"errors"
	"fmt"

	"github.com/shengyanli1982/quotes-go/internal/constants"
)

const (
	NoopType       = "noop"
	PrometheusType = constants.MetricsTypePrometheus
)

var (
	ErrNilConfig          = errors.New("metrics config cannot be nil")
	ErrNilRegistry        = errors.New("metrics registry cannot be nil")
	ErrInvalidConfig      = errors.New("invalid metrics config")
	ErrInvalidMetricsType = errors.New("invalid metrics type")
)

// Config 代表 metrics 配置段
type Config struct {
	Type      string `yaml:"type" json:"type"`           // prometheus 或 noop
	Enabled   bool   `yaml:"enabled" json:"enabled"`     // 关闭时使用 noop 收集器
	Namespace string `yaml:"namespace" json:"namespace"` // 指标名前缀
	Subsystem string `yaml:"subsystem" json:"subsystem"` // 可选，拼接在前缀之后
}

// DefaultConfig 返回启用状态的 prometheus 配置
func DefaultConfig() *Config {
	return &Config{
		Type:      PrometheusType,
		Enabled:   true,
		Namespace: constants.MetricsNamespace,
	}
}

// Validate 检查类型与指标名片段，错误均包装 ErrInvalidConfig
func (c *Config) Validate() error {
	switch {
	case c.Type != NoopType && c.Type != PrometheusType:
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, ErrInvalidMetricsType, c.Type)
	case c.Namespace == "":
		return fmt.Errorf("%w: namespace is empty", ErrInvalidConfig)
	case !isMetricName(c.Namespace):
		return fmt.Errorf("%w: namespace %q", ErrInvalidConfig, c.Namespace)
	case !isMetricName(c.Subsystem):
		return fmt.Errorf("%w: subsystem %q", ErrInvalidConfig, c.Subsystem)
	}
	return nil
}

// prefix 返回 namespace[_subsystem]
func (c *Config) prefix() string {
	if c.Subsystem == "" {
		return c.Namespace
	}
	return c.Namespace + "_" + c.Subsystem
}

func isMetricName(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
