package ratelimit

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/shengyanli1982/quotes-go/internal/constants"
)

// shard 是存储的一个分片，持有自己的锁
type shard struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// windowLimiter 基于固定窗口计数的限流器实现
// 存储按 key 的 xxhash 分片，同一 key 的查找、比较、自增在分片锁内完成
type windowLimiter struct {
	config Config
	shards []*shard
	clock  func() time.Time
}

// Option 代表限流器构造选项
type Option func(*windowLimiter)

// WithShards 设置存储分片数
func WithShards(n int) Option {
	return func(l *windowLimiter) {
		if n > 0 {
			l.shards = newShards(n)
		}
	}
}

// WithClock 设置 GetStatus 使用的时钟
func WithClock(clock func() time.Time) Option {
	return func(l *windowLimiter) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewWindowLimiter 创建新的固定窗口限流器实例
// windowMs 与 maxRequests 按原样使用，只为空的 message 填充默认值
func NewWindowLimiter(cfg Config, opts ...Option) Limiter {
	if cfg.Message == "" {
		cfg.Message = constants.MsgRateLimitDefault
	}

	l := &windowLimiter{
		config: cfg,
		shards: newShards(constants.DefaultStoreShards),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func newShards(n int) []*shard {
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{entries: make(map[string]*Entry)}
	}
	return shards
}

// Admit 在 now 时刻为 key 计数一次请求
func (l *windowLimiter) Admit(key string, now time.Time) Decision {
	nowMs := now.UnixMilli()

	// 清理在当前窗口开始之前就已结束的记录
	l.sweep(nowMs - l.config.WindowMs)

	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		entry = &Entry{Count: 0, ResetTime: nowMs + l.config.WindowMs}
		s.entries[key] = entry
	}

	// 窗口已结束，重新开始计数
	if nowMs > entry.ResetTime {
		entry.Count = 0
		entry.ResetTime = nowMs + l.config.WindowMs
	}

	if entry.Count >= l.config.MaxRequests {
		retryAfter := int64(math.Ceil(float64(entry.ResetTime-nowMs) / 1000))
		return Decision{
			Allowed:    false,
			Limit:      l.config.MaxRequests,
			Remaining:  0,
			ResetTime:  entry.ResetTime,
			RetryAfter: retryAfter,
			Rejection: &Rejection{
				StatusCode: http.StatusTooManyRequests,
				Message:    l.config.Message,
				Detail: RejectionDetail{
					Limit:      l.config.MaxRequests,
					WindowMs:   l.config.WindowMs,
					RetryAfter: retryAfter,
				},
			},
		}
	}

	entry.Count++

	return Decision{
		Allowed:   true,
		Limit:     l.config.MaxRequests,
		Remaining: remaining(l.config.MaxRequests, entry.Count),
		ResetTime: entry.ResetTime,
	}
}

// GetStatus 获取 key 当前窗口的状态，窗口过期的记录视为不存在
func (l *windowLimiter) GetStatus(key string) *Status {
	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[key]
	if !exists {
		return nil
	}

	if l.clock().UnixMilli() > entry.ResetTime {
		return nil
	}

	return &Status{
		Count:     entry.Count,
		Remaining: remaining(l.config.MaxRequests, entry.Count),
		ResetTime: entry.ResetTime,
	}
}

// Reset 删除 key 的计数记录
func (l *windowLimiter) Reset(key string) {
	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// GetAllEntries 返回所有记录的快照副本
func (l *windowLimiter) GetAllEntries() map[string]Entry {
	snapshot := make(map[string]Entry)
	for _, s := range l.shards {
		s.mu.Lock()
		for key, entry := range s.entries {
			snapshot[key] = *entry
		}
		s.mu.Unlock()
	}
	return snapshot
}

// Len 返回当前记录数
func (l *windowLimiter) Len() int {
	total := 0
	for _, s := range l.shards {
		s.mu.Lock()
		total += len(s.entries)
		s.mu.Unlock()
	}
	return total
}

// Config 返回限流器配置
func (l *windowLimiter) Config() Config {
	return l.config
}

// Type 获取限流器类型
func (l *windowLimiter) Type() string {
	return "fixed_window"
}

// sweep 删除 resetTime 早于 windowStart 的记录
// TODO: 高流量下改为按 resetTime 排序的最小堆，避免每次请求全量扫描
func (l *windowLimiter) sweep(windowStart int64) {
	for _, s := range l.shards {
		s.mu.Lock()
		for key, entry := range s.entries {
			if entry.ResetTime < windowStart {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}

// shardFor 根据 key 的哈希选择分片
func (l *windowLimiter) shardFor(key string) *shard {
	return l.shards[xxhash.Sum64String(key)%uint64(len(l.shards))]
}

// remaining 计算剩余配额，不小于0
func remaining(maxRequests, count int) int {
	if left := maxRequests - count; left > 0 {
		return left
	}
	return 0
}
