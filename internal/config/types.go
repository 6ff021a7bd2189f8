package config

import "github.com/shengyanli1982/quotes-go/internal/metrics"

// Config 代表主配置结构体，包含HTTP服务器、限流预设、指标与应用信息
type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpServer" validate:"required"`
	RateLimits RateLimitsConfig `yaml:"rateLimits"`
	Metrics    *metrics.Config  `yaml:"metrics,omitempty"`
	App        AppConfig        `yaml:"app"`
}

// HTTPServerConfig 代表HTTP服务器配置，包含业务接口服务和管理服务设置
type HTTPServerConfig struct {
	API   APIConfig   `yaml:"api"`
	Admin AdminConfig `yaml:"admin"`
}

// APIConfig 代表业务接口服务配置
type APIConfig struct {
	Port       int             `yaml:"port" validate:"min=1,max=65535"`
	Address    string          `yaml:"address" validate:"listen_address"`
	TrustProxy bool            `yaml:"trustProxy"`
	Throttle   *ThrottleConfig `yaml:"throttle,omitempty"`
	Timeout    *TimeoutConfig  `yaml:"timeout,omitempty"`
}

// AdminConfig 代表管理服务配置，用于监控指标和限流状态查询
type AdminConfig struct {
	Port    int            `yaml:"port" validate:"min=1,max=65535"`
	Address string         `yaml:"address" validate:"listen_address"`
	Timeout *TimeoutConfig `yaml:"timeout,omitempty"`
}

// ThrottleConfig 代表按客户端的令牌桶节流配置，作用于整个业务接口
type ThrottleConfig struct {
	PerSecond int `yaml:"perSecond" validate:"omitempty,min=1,max=65535"`
	Burst     int `yaml:"burst" validate:"omitempty,min=1,max=65535"`
}

// TimeoutConfig 代表超时配置（单位：毫秒）
type TimeoutConfig struct {
	Idle  int `yaml:"idle,omitempty" validate:"omitempty,min=1000,max=86400000"`
	Read  int `yaml:"read,omitempty" validate:"omitempty,min=1000,max=86400000"`
	Write int `yaml:"write,omitempty" validate:"omitempty,min=1000,max=86400000"`
}

// RateLimitsConfig 代表固定窗口限流预设配置
type RateLimitsConfig struct {
	Like    *WindowConfig `yaml:"like,omitempty"`
	General *WindowConfig `yaml:"general,omitempty"`
	Strict  *WindowConfig `yaml:"strict,omitempty"`
}

// WindowConfig 代表单个固定窗口限流器配置
// Enabled 未设置时：配置了该段即启用
type WindowConfig struct {
	Enabled     *bool  `yaml:"enabled,omitempty"`
	WindowMs    int64  `yaml:"windowMs" validate:"min=1,max=86400000"`
	MaxRequests int    `yaml:"maxRequests" validate:"min=1,max=1000000"`
	Message     string `yaml:"message,omitempty" validate:"max=500"`
}

// IsEnabled 判断限流器是否启用
func (w *WindowConfig) IsEnabled() bool {
	return w != nil && w.Enabled != nil && *w.Enabled
}

// AppConfig 代表应用信息，用于版本接口
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
}
