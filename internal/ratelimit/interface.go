package ratelimit

import (
	"net/http"
	"time"
)

// Limiter 代表按键计数的固定窗口限流器接口
type Limiter interface {
	// Admit 在 now 时刻为 key 计数一次请求，返回放行或拒绝的判定
	Admit(key string, now time.Time) Decision

	// GetStatus 获取 key 当前窗口的状态，不存在或窗口已过期时返回 nil
	GetStatus(key string) *Status

	// Reset 删除 key 的计数记录
	Reset(key string)

	// GetAllEntries 返回存储的快照副本，用于监控
	GetAllEntries() map[string]Entry

	// Len 返回当前存储中的记录数
	Len() int

	// Config 返回限流器配置
	Config() Config

	// Type 获取限流器类型
	Type() string
}

// Throttle 代表按键的令牌桶限流器接口
type Throttle interface {
	// Allow 检查指定key是否允许通过
	Allow(key string) bool

	// Reset 重置指定key的限流状态
	Reset(key string)

	// Sweep 清理 cutoff 之前未再出现的key，返回清理数量
	Sweep(cutoff time.Time) int

	// Type 获取限流器类型
	Type() string
}

// KeyFunc 从请求中提取限流键
type KeyFunc func(req *http.Request) string

// Config 代表固定窗口限流配置，构造后不再修改
type Config struct {
	WindowMs    int64  `json:"windowMs" yaml:"windowMs"`       // 窗口长度（毫秒）
	MaxRequests int    `json:"maxRequests" yaml:"maxRequests"` // 每个窗口允许的请求数
	Message     string `json:"message" yaml:"message"`         // 拒绝时的提示信息

	// 以下两个字段为预留开关，当前不参与计数
	SkipSuccessfulRequests bool `json:"skipSuccessfulRequests" yaml:"skipSuccessfulRequests"`
	SkipFailedRequests     bool `json:"skipFailedRequests" yaml:"skipFailedRequests"`
}

// Entry 代表单个key在当前窗口内的计数记录
type Entry struct {
	Count     int   `json:"count"`     // 当前窗口内已放行的请求数
	ResetTime int64 `json:"resetTime"` // 窗口结束时间（毫秒时间戳）
}

// Status 代表单个key的限流状态
type Status struct {
	Count     int   `json:"count"`
	Remaining int   `json:"remaining"`
	ResetTime int64 `json:"resetTime"`
}
