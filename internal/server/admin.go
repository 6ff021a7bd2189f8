package server

import (
	"github.com/go-logr/logr"
	"github.com/shengyanli1982/orbit"
	"github.com/shengyanli1982/quotes-go/internal/config"
	"github.com/shengyanli1982/quotes-go/internal/constants"
)

// AdminServer 代表管理服务器，提供监控指标与限流状态管理
type AdminServer struct {
	*engineServer
	config  *config.AdminConfig
	service *AdminService
}

// NewAdminServer 创建新的管理服务器实例
// debug 模式下启用 orbit 的调试路由
func NewAdminServer(debug bool, logger *logr.Logger, cfg *config.AdminConfig, service *AdminService) *AdminServer {
	idle, read, write := timeouts(cfg.Timeout)
	engineCfg := orbit.NewConfig().
		WithLogger(logger).
		WithAddress(cfg.Address).
		WithPort(uint16(cfg.Port)).
		WithHttpIdleTimeout(idle).
		WithHttpReadHeaderTimeout(read).
		WithHttpReadTimeout(read).
		WithHttpWriteTimeout(write)

	opts := orbit.DebugOptions()
	if !debug {
		opts = orbit.ReleaseOptions()
		engineCfg.WithRelease()
	}

	engine := orbit.NewEngine(engineCfg, opts)
	engine.RegisterService(service)

	return &AdminServer{
		engineServer: newEngineServer(constants.ServerAdmin, cfg.Address, cfg.Port, engine, logger, service),
		config:       cfg,
		service:      service,
	}
}

// GetConfig 获取管理服务配置
func (s *AdminServer) GetConfig() *config.AdminConfig {
	return s.config
}

// Service 获取管理服务实例
func (s *AdminServer) Service() *AdminService {
	return s.service
}
