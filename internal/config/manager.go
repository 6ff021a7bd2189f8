package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
	"gopkg.in/yaml.v3"
)

// 全局验证器实例，用于配置验证
var validate = validator.New()

// ErrPortConflict 业务接口与管理接口监听同一地址端口
var ErrPortConflict = errors.New("api and admin servers cannot listen on the same address and port")

// Manager 代表配置管理器，负责配置文件的加载、验证和管理
type Manager struct {
	config     *Config             // 当前加载的配置实例
	configPath string              // 配置文件的绝对路径
	validator  *validator.Validate // 配置验证器
}

// NewManager 创建新的配置管理器实例
func NewManager() (*Manager, error) {
	if err := validate.RegisterValidation("listen_address", validateListenAddress); err != nil {
		return nil, err
	}

	return &Manager{
		validator: validate,
	}, nil
}

// LoadFromFile 从指定路径加载配置文件并进行验证
// configPath: 配置文件路径
func (m *Manager) LoadFromFile(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := m.Load(data); err != nil {
		return err
	}

	m.configPath, _ = filepath.Abs(configPath)

	// 配置加载成功，日志记录由调用者负责
	return nil
}

// Load 解析 YAML 内容，设置默认值并验证
func (m *Manager) Load(data []byte) error {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	m.SetDefaults(&config)

	if err := m.validator.Struct(&config); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := m.validateListeners(&config); err != nil {
		return fmt.Errorf("config listener validation failed: %w", err)
	}

	m.config = &config

	return nil
}

// validateListeners 验证两个服务不会争用同一监听地址
func (m *Manager) validateListeners(config *Config) error {
	api, admin := config.HTTPServer.API, config.HTTPServer.Admin
	if api.Port != admin.Port {
		return nil
	}

	if api.Address == admin.Address || isWildcard(api.Address) || isWildcard(admin.Address) {
		return fmt.Errorf("%w: %d", ErrPortConflict, api.Port)
	}

	return nil
}

// GetConfig 返回当前加载的配置实例
func (m *Manager) GetConfig() *Config {
	return m.config
}

// GetConfigPath 返回当前配置文件的绝对路径
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// SetDefaults 为配置设置默认值，确保所有必需字段都有合理的默认值
// config: 待设置默认值的配置实例
func (m *Manager) SetDefaults(config *Config) {
	m.setAPIDefaults(config)
	m.setAdminDefaults(config)
	m.setRateLimitDefaults(config)
	m.setMetricsDefaults(config)
	m.setAppDefaults(config)
}

// setAPIDefaults 设置业务接口服务的默认值
func (m *Manager) setAPIDefaults(config *Config) {
	api := &config.HTTPServer.API
	if api.Port == 0 {
		api.Port = constants.DefaultAPIPort
	}
	if api.Address == "" {
		api.Address = constants.DefaultAddress
	}
	api.Timeout = timeoutWithDefaults(api.Timeout)

	if api.Throttle != nil {
		if api.Throttle.PerSecond == 0 {
			api.Throttle.PerSecond = constants.DefaultThrottlePerSecond
		}
		if api.Throttle.Burst == 0 {
			api.Throttle.Burst = constants.DefaultThrottleBurst
		}
	}
}

// setAdminDefaults 设置管理服务的默认值
func (m *Manager) setAdminDefaults(config *Config) {
	admin := &config.HTTPServer.Admin
	if admin.Port == 0 {
		admin.Port = constants.DefaultAdminPort
	}
	if admin.Address == "" {
		admin.Address = constants.DefaultAddress
	}
	admin.Timeout = timeoutWithDefaults(admin.Timeout)
}

// setRateLimitDefaults 设置限流预设的默认值
// 未配置的点赞预设默认启用，通用与严格预设默认关闭
func (m *Manager) setRateLimitDefaults(config *Config) {
	limits := &config.RateLimits
	limits.Like = windowWithDefaults(limits.Like, constants.LikeMaxRequests, constants.MsgRateLimitLike, true)
	limits.General = windowWithDefaults(limits.General, constants.GeneralMaxRequests, constants.MsgRateLimitGeneral, false)
	limits.Strict = windowWithDefaults(limits.Strict, constants.StrictMaxRequests, constants.MsgRateLimitStrict, false)
}

// setMetricsDefaults 设置指标收集的默认值
func (m *Manager) setMetricsDefaults(config *Config) {
	if config.Metrics == nil {
		config.Metrics = metrics.DefaultConfig()
		return
	}
	if config.Metrics.Type == "" {
		config.Metrics.Type = constants.MetricsTypePrometheus
	}
	if config.Metrics.Namespace == "" {
		config.Metrics.Namespace = constants.MetricsNamespace
	}
}

// setAppDefaults 设置应用信息的默认值
func (m *Manager) setAppDefaults(config *Config) {
	if config.App.Name == "" {
		config.App.Name = constants.AppName
	}
	if config.App.Version == "" {
		config.App.Version = constants.DefaultVersion
	}
	if config.App.Description == "" {
		config.App.Description = constants.AppDescription
	}
}

// timeoutWithDefaults 为缺失或为0的超时字段填充默认值
func timeoutWithDefaults(timeout *TimeoutConfig) *TimeoutConfig {
	if timeout == nil {
		timeout = &TimeoutConfig{}
	}
	if timeout.Idle == 0 {
		timeout.Idle = constants.DefaultIdleTimeout
	}
	if timeout.Read == 0 {
		timeout.Read = constants.DefaultReadTimeout
	}
	if timeout.Write == 0 {
		timeout.Write = constants.DefaultWriteTimeout
	}
	return timeout
}

// windowWithDefaults 为限流预设填充默认值
// section 缺失时按 enabledWhenMissing 决定是否启用；section 存在但未写 enabled 时视为启用
func windowWithDefaults(window *WindowConfig, maxRequests int, message string, enabledWhenMissing bool) *WindowConfig {
	if window == nil {
		enabled := enabledWhenMissing
		return &WindowConfig{
			Enabled:     &enabled,
			WindowMs:    constants.DefaultWindowMs,
			MaxRequests: maxRequests,
			Message:     message,
		}
	}

	if window.Enabled == nil {
		enabled := true
		window.Enabled = &enabled
	}
	if window.WindowMs == 0 {
		window.WindowMs = constants.DefaultWindowMs
	}
	if window.MaxRequests == 0 {
		window.MaxRequests = maxRequests
	}
	if window.Message == "" {
		window.Message = message
	}
	return window
}

// validateListenAddress 验证监听地址必须是IP或主机名
func validateListenAddress(fl validator.FieldLevel) bool {
	address := fl.Field().String()
	if address == "" {
		return false
	}

	if net.ParseIP(address) != nil {
		return true
	}

	return validate.Var(address, "hostname_rfc1123") == nil
}

// isWildcard 判断是否为监听所有网卡的地址
func isWildcard(address string) bool {
	return address == "0.0.0.0" || address == "::"
}
