package ratelimit

import (
	"net"
	"net/http"
	"strings"

	"github.com/shengyanli1982/quotes-go/internal/constants"
)

// NewKeyFunc 创建基于客户端地址的限流键提取函数
// trustProxy: 是否信任 X-Forwarded-For / X-Real-IP 头部
func NewKeyFunc(trustProxy bool) KeyFunc {
	return func(req *http.Request) string {
		return constants.RateLimitKeyPrefix + ClientAddress(req, trustProxy)
	}
}

// ClientAddress 获取客户端地址
// 优先使用请求上报的地址，其次使用连接层地址，都不可用时返回 "unknown"
func ClientAddress(req *http.Request, trustProxy bool) string {
	if req == nil {
		return constants.UnknownClientAddress
	}

	if addr := reportedAddress(req, trustProxy); addr != "" {
		return addr
	}

	// 连接层地址，无法拆分端口时按原样使用
	if addr := strings.TrimSpace(req.RemoteAddr); addr != "" {
		return addr
	}

	return constants.UnknownClientAddress
}

// reportedAddress 获取请求上报的客户端IP
func reportedAddress(req *http.Request, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For可能包含多个IP，取第一个
		if xff := req.Header.Get(constants.HeaderXForwardedFor); xff != "" {
			if ip := parseFirstIP(xff); ip != "" {
				return ip
			}
		}

		if xri := strings.TrimSpace(req.Header.Get(constants.HeaderXRealIP)); xri != "" {
			if ip := net.ParseIP(xri); ip != nil {
				return xri
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return ""
	}

	return host
}

// parseFirstIP 解析并返回第一个有效的IP地址
func parseFirstIP(xff string) string {
	first := xff
	if idx := strings.IndexByte(xff, ','); idx >= 0 {
		first = xff[:idx]
	}

	first = strings.TrimSpace(first)
	if ip := net.ParseIP(first); ip != nil {
		return first
	}

	return ""
}
