package middleware

import (
	"net/http"
	"runtime/debug"

	pkglog "ClearCut/pkg/log"
)

// Recovery turns handler panics into a 500 JSON error instead of tearing
// down the connection.
func Recovery(logger *pkglog.LogHelper) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithContext(r.Context()).Errorw(
						"msg", "panic recovered",
						"panic", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"Internal server error","statusCode":500}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
