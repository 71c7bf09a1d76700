package server

import (
	"ClearCut/internal/biz"
	"ClearCut/internal/conf"
	"ClearCut/internal/server/middleware"
	"ClearCut/internal/service"
	pkglog "ClearCut/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// NewHTTPServer new an HTTP server.
// The upload endpoint speaks raw multipart/binary, so routes are plain
// http.HandlerFunc registrations behind a filter chain instead of Kratos
// codec-based handlers.
func NewHTTPServer(c *conf.Server, rl *conf.RateLimit, removalService *service.RemovalService, limiter *biz.RateLimiterUseCase, audit biz.AuditLogger, logger log.Logger) *http.Server {
	logHelper := pkglog.NewLogHelper(logger)

	var opts = []http.ServerOption{
		http.Filter(
			middleware.Recovery(logHelper),
			middleware.Logging(logHelper, rl.TrustProxyHeaders),
			middleware.RateLimit(limiter, audit, rl.TrustProxyHeaders, logHelper),
		),
	}
	if c.Http.Network != "" {
		opts = append(opts, http.Network(c.Http.Network))
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != nil {
		opts = append(opts, http.Timeout(c.Http.Timeout.AsDuration()))
	}
	srv := http.NewServer(opts...)

	srv.HandleFunc("/api/remove-bg", removalService.RemoveBackground)
	srv.HandleFunc("/healthz", removalService.Health)

	return srv
}
