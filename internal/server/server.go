package server

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/shengyanli1982/quotes-go/internal/config"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
	"github.com/shengyanli1982/quotes-go/internal/quote"
	"github.com/shengyanli1982/quotes-go/internal/ratelimit"
)

// Server 代表主服务器，管理业务接口服务器和管理服务器
type Server struct {
	apiServer   *APIServer          // 业务接口服务器实例
	adminServer *AdminServer        // 管理服务器实例
	limiters    *ratelimit.Registry // 两个服务器共享的限流注册表
	logger      *logr.Logger        // 日志记录器
}

// NewServer 创建新的服务器实例
// debug: 是否启用调试模式
// logger: 日志记录器
// cfg: 已设置默认值并通过校验的配置
func NewServer(debug bool, logger *logr.Logger, cfg *config.Config) (*Server, error) {
	metricsConfig := cfg.Metrics
	if metricsConfig == nil {
		metricsConfig = metrics.DefaultConfig()
	}

	// 所有服务共享同一个收集器
	globalRegistry := metrics.GetGlobalRegistry()
	collector, err := globalRegistry.GetOrCreateShared(constants.MetricsCollectorGlobal, metricsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create global metrics collector: %w", err)
	}

	limiters := ratelimit.NewRegistry()

	apiService, err := NewAPIService(cfg, quote.NewMemoryRepository(), limiters, collector, logger)
	if err != nil {
		return nil, err
	}
	adminService := NewAdminService(limiters, globalRegistry, collector, logger)

	return &Server{
		apiServer:   NewAPIServer(debug, logger, &cfg.HTTPServer.API, apiService),
		adminServer: NewAdminServer(debug, logger, &cfg.HTTPServer.Admin, adminService),
		limiters:    limiters,
		logger:      logger,
	}, nil
}

// Start 启动所有服务器（业务接口服务器和管理服务器）
func (s *Server) Start() {
	s.logger.Info("Starting all servers")

	s.apiServer.Start()
	s.adminServer.Start()
}

// Stop 停止所有服务器（业务接口服务器和管理服务器）
func (s *Server) Stop() {
	s.logger.Info("Stopping all servers")

	s.apiServer.Stop()
	s.adminServer.Stop()
}

// APIServer 获取业务接口服务器实例
func (s *Server) APIServer() *APIServer {
	return s.apiServer
}

// AdminServer 获取管理服务器实例
func (s *Server) AdminServer() *AdminServer {
	return s.adminServer
}

// Limiters 获取限流注册表
func (s *Server) Limiters() *ratelimit.Registry {
	return s.limiters
}
