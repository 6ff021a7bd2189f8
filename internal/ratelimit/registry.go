package ratelimit

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shengyanli1982/quotes-go/internal/constants"
)

// 注册表相关错误定义
var (
	ErrUnknownLimiter           = errors.New(constants.ErrMsgUnknownLimiter)
	ErrEmptyLimiterKey          = errors.New(constants.ErrMsgEmptyLimiterKey)
	ErrLimiterAlreadyRegistered = errors.New("rate limiter already registered")
)

// Registry 按名称登记限流中间件，供管理接口查询与重置
type Registry struct {
	mu          sync.RWMutex
	middlewares map[string]*Middleware
}

// NewRegistry 创建新的注册表实例
func NewRegistry() *Registry {
	return &Registry{
		middlewares: make(map[string]*Middleware),
	}
}

// Register 登记中间件，名称必须唯一
func (r *Registry) Register(m *Middleware) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.middlewares[m.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrLimiterAlreadyRegistered, m.Name())
	}
	r.middlewares[m.Name()] = m

	return nil
}

// Get 获取指定名称的中间件
func (r *Registry) Get(name string) (*Middleware, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.middlewares[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLimiter, name)
	}
	return m, nil
}

// Names 返回已登记的名称列表（已排序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.middlewares))
	for name := range r.middlewares {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries 返回每个限流器的记录快照
func (r *Registry) Entries() map[string]map[string]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make(map[string]map[string]Entry, len(r.middlewares))
	for name, m := range r.middlewares {
		all[name] = m.Limiter().GetAllEntries()
	}
	return all
}

// Status 获取指定限流器中 key 的状态
func (r *Registry) Status(name, key string) (*Status, error) {
	if key == "" {
		return nil, ErrEmptyLimiterKey
	}
	m, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return m.Limiter().GetStatus(key), nil
}

// Reset 重置指定限流器中 key 的记录
func (r *Registry) Reset(name, key string) error {
	if key == "" {
		return ErrEmptyLimiterKey
	}
	m, err := r.Get(name)
	if err != nil {
		return err
	}
	m.Limiter().Reset(key)
	return nil
}
