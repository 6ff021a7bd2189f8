package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/shengyanli1982/orbit"
	"github.com/shengyanli1982/quotes-go/internal/config"
	"github.com/shengyanli1982/quotes-go/internal/constants"
	"github.com/shengyanli1982/quotes-go/internal/metrics"
)

// lifecycle 代表随服务器启停的服务
type lifecycle interface {
	Run()
	Stop()
}

// serviceState 提供幂等的 Run/Stop，嵌入到各服务中
type serviceState struct {
	mu      sync.RWMutex
	running bool
	name    string
	log     *logr.Logger
}

func newServiceState(name string, logger *logr.Logger) *serviceState {
	return &serviceState{name: name, log: logger}
}

func (s *serviceState) Run()  { s.transition(true) }
func (s *serviceState) Stop() { s.transition(false) }

func (s *serviceState) transition(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running == running {
		return
	}
	s.running = running

	if running {
		s.log.Info("Service started", "service", s.name)
	} else {
		s.log.Info("Service stopped", "service", s.name)
	}
}

// IsRunning 检查服务是否运行中
func (s *serviceState) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// engineServer 封装一个 orbit 引擎及其服务的启停
type engineServer struct {
	label      string        // 日志中的服务器名称
	endpoint   string        // 服务器监听地址
	httpEngine *orbit.Engine // HTTP 引擎实例
	closeOnce  sync.Once     // 确保只关闭一次
	logger     *logr.Logger
	service    lifecycle
}

func newEngineServer(label, address string, port int, engine *orbit.Engine, logger *logr.Logger, svc lifecycle) *engineServer {
	return &engineServer{
		label:      label,
		endpoint:   fmt.Sprintf("%s:%d", address, port),
		httpEngine: engine,
		logger:     logger,
		service:    svc,
	}
}

// timeouts 返回 orbit 使用的毫秒超时（空闲、读取、写入），未配置时使用默认值
func timeouts(timeout *config.TimeoutConfig) (idle, read, write uint32) {
	idle, read, write = constants.DefaultIdleTimeout, constants.DefaultReadTimeout, constants.DefaultWriteTimeout
	if timeout == nil {
		return
	}
	if timeout.Idle > 0 {
		idle = uint32(timeout.Idle)
	}
	if timeout.Read > 0 {
		read = uint32(timeout.Read)
	}
	if timeout.Write > 0 {
		write = uint32(timeout.Write)
	}
	return
}

// Start 启动服务与 HTTP 引擎
func (s *engineServer) Start() {
	if s.httpEngine.IsRunning() {
		s.logger.Error(ErrServerAlreadyStarted, "Server is already started", "server", s.label)
		return
	}

	s.logger.Info("Starting server", "server", s.label, "endpoint", s.endpoint)

	s.service.Run()
	s.httpEngine.Run()

	// 重置关闭标志
	s.closeOnce = sync.Once{}

	s.logger.Info("Server started successfully", "server", s.label, "endpoint", s.endpoint)
}

// Stop 停止 HTTP 引擎与服务
func (s *engineServer) Stop() {
	if !s.httpEngine.IsRunning() {
		s.logger.Info("Server is not running", "server", s.label)
		return
	}

	s.closeOnce.Do(func() {
		s.logger.Info("Stopping server", "server", s.label, "endpoint", s.endpoint)

		s.httpEngine.Stop()
		s.service.Stop()

		s.logger.Info("Server stopped successfully", "server", s.label, "endpoint", s.endpoint)
	})
}

// IsRunning 检查服务器是否正在运行
func (s *engineServer) IsRunning() bool {
	return s.httpEngine.IsRunning()
}

// GetEndpoint 获取服务器监听地址
func (s *engineServer) GetEndpoint() string {
	return s.endpoint
}

// requestMetrics 记录每个请求的状态码与耗时，路由标签使用注册时的路径模板
func requestMetrics(collector metrics.MetricsCollector, server string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = constants.RouteUnmatched
		}
		collector.RecordResponse(server, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
