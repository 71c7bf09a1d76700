package log

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// contextKey is the private key type used to store a RequestContext.
type contextKey string

const requestContextKey contextKey = "clearcut_request_context"

// RequestContext carries per-request tracing information through the
// Context so every log call downstream can correlate to one upload.
type RequestContext struct {
	RequestID string    // short random ID, e.g. mgrn0zfqda
	ClientIP  string    // identity the rate limiter accounted this request to
	StartTime time.Time // when the request entered the server
}

var (
	randSource = rand.NewSource(time.Now().UnixNano())
	randMutex  sync.Mutex
	// base36 alphabet (lowercase letters + digits)
	base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateRequestID generates a 10-character random request ID.
// base36 keeps it short and cheap compared to a UUID.
func GenerateRequestID() string {
	randMutex.Lock()
	defer randMutex.Unlock()

	b := make([]byte, 10)
	for i := range b {
		b[i] = base36Chars[randSource.Int63()%36]
	}
	return string(b)
}

// WithRequestContext injects a RequestContext into the Context. Called once
// per request by the logging filter.
func WithRequestContext(ctx context.Context, requestID, clientIP string) context.Context {
	reqCtx := &RequestContext{
		RequestID: requestID,
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
	return context.WithValue(ctx, requestContextKey, reqCtx)
}

// GetRequestContext extracts the RequestContext from the Context.
// Returns a default value if none is present, so callers never nil-check.
func GetRequestContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return &RequestContext{RequestID: "unknown"}
	}

	if reqCtx, ok := ctx.Value(requestContextKey).(*RequestContext); ok {
		return reqCtx
	}

	return &RequestContext{RequestID: "unknown"}
}

// GetRequestID extracts the request ID from the Context.
func GetRequestID(ctx context.Context) string {
	return GetRequestContext(ctx).RequestID
}

// GetClientIP extracts the client identity from the Context.
func GetClientIP(ctx context.Context) string {
	return GetRequestContext(ctx).ClientIP
}

// GetElapsedTime returns how long the request has been running, in
// milliseconds. Zero when no RequestContext is present.
func GetElapsedTime(ctx context.Context) int64 {
	reqCtx := GetRequestContext(ctx)
	if reqCtx.StartTime.IsZero() {
		return 0
	}
	return time.Since(reqCtx.StartTime).Milliseconds()
}
