package server

import (
	"github.com/go-logr/logr"
	"github.com/shengyanli1982/orbit"
	"github.com/shengyanli1982/quotes-go/internal/config"
	"github.com/shengyanli1982/quotes-go/internal/constants"
)

// APIServer 代表业务接口服务器，承载名言接口、健康检查与版本信息
type APIServer struct {
	*engineServer
	config  *config.APIConfig
	service *APIService
}

// NewAPIServer 创建新的业务接口服务器实例
// debug: 是否启用调试模式
// logger: 日志记录器
// cfg: 业务接口配置
// service: 已初始化的业务接口服务
func NewAPIServer(debug bool, logger *logr.Logger, cfg *config.APIConfig, service *APIService) *APIServer {
	idle, read, write := timeouts(cfg.Timeout)
	engineCfg := orbit.NewConfig().
		WithLogger(logger).
		WithAddress(cfg.Address).
		WithPort(uint16(cfg.Port)).
		WithHttpIdleTimeout(idle).
		WithHttpReadHeaderTimeout(read).
		WithHttpReadTimeout(read).
		WithHttpWriteTimeout(write)
	if !debug {
		engineCfg.WithRelease()
	}

	// 业务端口不挂载 orbit 的调试与指标路由，指标由管理服务器暴露
	engine := orbit.NewEngine(engineCfg, orbit.EmptyOptions())
	engine.RegisterService(service)

	return &APIServer{
		engineServer: newEngineServer(constants.ServerAPI, cfg.Address, cfg.Port, engine, logger, service),
		config:       cfg,
		service:      service,
	}
}

// GetConfig 获取业务接口配置
func (s *APIServer) GetConfig() *config.APIConfig {
	return s.config
}

// Service 获取业务接口服务实例
func (s *APIServer) Service() *APIService {
	return s.service
}
