package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shengyanli1982/quotes-go/internal/constants"
)

// Decision 代表一次 Admit 的判定结果
// Rejection 为 nil 表示放行
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  int64 // 毫秒时间戳
	RetryAfter int64 // 秒，仅拒绝时有效
	Rejection  *Rejection
}

// Rejection 代表配额耗尽时的拒绝信息
type Rejection struct {
	StatusCode int
	Message    string
	Detail     RejectionDetail
}

// RejectionDetail 代表拒绝响应体中的 details 字段
type RejectionDetail struct {
	Limit      int   `json:"limit"`
	WindowMs   int64 `json:"windowMs"`
	RetryAfter int64 `json:"retryAfter"`
}

// Error 实现 error 接口，便于记录日志
func (r *Rejection) Error() string {
	return r.Message
}

// FormatResetTime 将毫秒时间戳格式化为 ISO-8601 字符串
func FormatResetTime(resetTime int64) string {
	return time.UnixMilli(resetTime).UTC().Format(constants.ISOTimeLayout)
}

// Headers 返回本次判定需要写入响应的头部
func (d Decision) Headers() map[string]string {
	headers := map[string]string{
		constants.HeaderRateLimitLimit:     strconv.Itoa(d.Limit),
		constants.HeaderRateLimitRemaining: strconv.Itoa(d.Remaining),
		constants.HeaderRateLimitReset:     FormatResetTime(d.ResetTime),
	}
	if !d.Allowed {
		headers[constants.HeaderRetryAfter] = strconv.FormatInt(d.RetryAfter, 10)
	}
	return headers
}

// WriteHeaders 将判定头部写入 h
func (d Decision) WriteHeaders(h http.Header) {
	for name, value := range d.Headers() {
		h.Set(name, value)
	}
}
