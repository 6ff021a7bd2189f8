package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// bucketEntry 记录单个key的令牌桶及最近访问时间
type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// tokenBucket 基于token bucket算法的按键限流器实现
type tokenBucket struct {
	mu      sync.RWMutex
	buckets map[string]*bucketEntry
	limit   rate.Limit
	burst   int
}

// NewTokenBucket 创建新的token bucket限流器实例
func NewTokenBucket(perSecond float64, burst int) Throttle {
	return &tokenBucket{
		buckets: make(map[string]*bucketEntry),
		limit:   rate.Limit(perSecond),
		burst:   burst,
	}
}

// Allow 检查指定key是否允许通过
func (t *tokenBucket) Allow(key string) bool {
	return t.getBucket(key).Allow()
}

// Reset 重置指定key的限流状态
func (t *tokenBucket) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.buckets, key)
}

// Sweep 清理 cutoff 之前未再出现的key
func (t *tokenBucket) Sweep(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, entry := range t.buckets {
		if entry.lastSeen.Before(cutoff) {
			delete(t.buckets, key)
			removed++
		}
	}
	return removed
}

// Type 获取限流器类型
func (t *tokenBucket) Type() string {
	return "token_bucket"
}

// getBucket 获取或创建指定key的令牌桶
func (t *tokenBucket) getBucket(key string) *rate.Limiter {
	now := time.Now()

	t.mu.RLock()
	entry, exists := t.buckets[key]
	t.mu.RUnlock()

	if exists {
		t.mu.Lock()
		entry.lastSeen = now
		t.mu.Unlock()
		return entry.limiter
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// 双重检查
	if entry, exists := t.buckets[key]; exists {
		entry.lastSeen = now
		return entry.limiter
	}

	entry = &bucketEntry{
		limiter:  rate.NewLimiter(t.limit, t.burst),
		lastSeen: now,
	}
	t.buckets[key] = entry

	return entry.limiter
}
