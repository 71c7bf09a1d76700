package middleware

import (
	"net/http"
	"time"

	pkglog "ClearCut/pkg/log"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging 返回一个记录 HTTP 请求日志的中间件
// 自动生成 Request ID、注入 Request Context、检测慢请求
//
// 日志输出示例:
//
//	🟢 POST /api/remove-bg - 200 (3.2s) | RequestID: mgrn0zfqda
//	🐌 [mgrn0zfqda] Slow request detected | POST /api/remove-bg | 13438ms
//
// trustProxyHeaders matches the rate limiter's setting so logs and audit
// rows carry the same client identity the limiter accounted.
func Logging(logger *pkglog.LogHelper, trustProxyHeaders bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = pkglog.GenerateRequestID()
			}

			clientIP := ClientIP(r, trustProxyHeaders)
			ctx := pkglog.WithRequestContext(r.Context(), requestID, clientIP)
			r = r.WithContext(ctx)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = path + "?" + r.URL.RawQuery
			}

			logger.RequestWithContext(ctx, r.Method, path, rec.status, time.Since(start).Milliseconds(),
				"ip", clientIP,
				"user_agent", r.Header.Get("User-Agent"),
			)
		})
	}
}
