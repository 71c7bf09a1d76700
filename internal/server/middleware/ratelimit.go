// Package middleware holds the HTTP filter chain: panic recovery,
// request logging and per-client rate limiting.
package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"ClearCut/internal/biz"
	"ClearCut/internal/model"
	pkglog "ClearCut/pkg/log"
)

// rateLimitBody is the 429 response shape.
type rateLimitBody struct {
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	RetryAfter int64  `json:"retryAfter"`
}

// RateLimit returns a filter enforcing the per-client fixed window on
// /api/ paths. It runs before the handler, so a denied or later-invalid
// request still consumes a window slot. Denials are recorded in the
// audit trail; the handler never sees them.
func RateLimit(limiter *biz.RateLimiterUseCase, audit biz.AuditLogger, trustProxyHeaders bool, logger *pkglog.LogHelper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			clientID := ClientIP(r, trustProxyHeaders)
			decision := limiter.Check(r.Context(), clientID)
			if !decision.Allowed {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.FormatInt(decision.RetryAfter, 10))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(rateLimitBody{
					Error:      "Rate limit exceeded. Please try again later.",
					StatusCode: http.StatusTooManyRequests,
					Message:    fmt.Sprintf("Request limit of %d per minute exceeded. Please wait before trying again.", limiter.Max()),
					RetryAfter: decision.RetryAfter,
				})
				audit.Record(&model.RemovalAudit{
					ClientID:   clientID,
					StatusCode: http.StatusTooManyRequests,
					Outcome:    model.OutcomeRateLimited,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// proxyIPHeaders in trust order. X-Forwarded-For may hold a chain; the
// first element is the originating client.
var proxyIPHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"CF-Connecting-IP",
	"True-Client-IP",
	"X-Client-IP",
}

// ClientIP 从请求中提取客户端真实 IP
// 优先级: 代理 header > RemoteAddr > anonymous
func ClientIP(r *http.Request, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		for _, header := range proxyIPHeaders {
			value := strings.TrimSpace(r.Header.Get(header))
			if value == "" {
				continue
			}
			if header == "X-Forwarded-For" {
				value = strings.TrimSpace(strings.Split(value, ",")[0])
			}
			if value != "" {
				return value
			}
		}

		// RFC 7239 Forwarded: for=client;proto=https
		if fwd := r.Header.Get("Forwarded"); fwd != "" {
			if ip := parseForwardedFor(fwd); ip != "" {
				return ip
			}
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return biz.AnonymousClientID
}

// parseForwardedFor extracts the for= value of the first Forwarded element.
func parseForwardedFor(value string) string {
	first := strings.Split(value, ",")[0]
	for _, part := range strings.Split(first, ";") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "for") {
			ip := strings.Trim(kv[1], `"`)
			// Bracketed IPv6 with optional port, e.g. "[2001:db8::1]:4711"
			if strings.HasPrefix(ip, "[") {
				if end := strings.Index(ip, "]"); end > 0 {
					return ip[1:end]
				}
			}
			if host, _, err := net.SplitHostPort(ip); err == nil {
				return host
			}
			return ip
		}
	}
	return ""
}
