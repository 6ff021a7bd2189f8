package metrics

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrEmptyCollectorName 收集器名称为空
var ErrEmptyCollectorName = errors.New("collector name cannot be empty")

// MetricsRegistry 持有一个 Prometheus 注册器以及在其上创建的具名收集器
// 业务服务器与管理服务器通过同一个实例共享指标，管理服务器负责暴露
type MetricsRegistry struct {
	mu       sync.Mutex
	gatherer *prometheus.Registry
	shared   map[string]MetricsCollector
}

var (
	globalRegistry *MetricsRegistry
	registryOnce   sync.Once
)

// GetGlobalRegistry 获取进程级注册器
func GetGlobalRegistry() *MetricsRegistry {
	registryOnce.Do(func() {
		globalRegistry = NewMetricsRegistry()
	})
	return globalRegistry
}

// NewMetricsRegistry 创建独立的注册器，测试中用来避免全局状态
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		gatherer: prometheus.NewRegistry(),
		shared:   make(map[string]MetricsCollector),
	}
}

// GetOrCreateShared 按名称返回收集器，首次调用时在共享注册器上创建
// 指标关闭或类型为 noop 时返回不登记的 noop 收集器
func (r *MetricsRegistry) GetOrCreateShared(name string, config *Config) (MetricsCollector, error) {
	if name == "" {
		return nil, ErrEmptyCollectorName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if collector, ok := r.shared[name]; ok {
		return collector, nil
	}

	collector, err := NewCollector(config, r.gatherer)
	if err != nil {
		return nil, fmt.Errorf("failed to create collector %s: %w", name, err)
	}
	if collector.Name() != NoopType {
		r.shared[name] = collector
	}

	return collector, nil
}

// Lookup 查找已创建的收集器
func (r *MetricsRegistry) Lookup(name string) (MetricsCollector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collector, ok := r.shared[name]
	return collector, ok
}

// Names 返回已创建收集器的名称（已排序）
func (r *MetricsRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.shared))
	for name := range r.shared {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetRegistry 获取供 /metrics 使用的 Prometheus 注册器
func (r *MetricsRegistry) GetRegistry() *prometheus.Registry {
	return r.gatherer
}
