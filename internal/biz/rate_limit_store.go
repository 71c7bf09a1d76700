package biz

import (
	"context"
	"time"
)

// AnonymousClientID buckets requests whose source address could not be
// determined. All such requests share one rate limit window.
const AnonymousClientID = "anonymous"

// RateLimitStore counts requests per client within a fixed window.
// Following Kratos v2 DDD architecture, interfaces are defined in biz layer.
// Implementations are in data layer (data.MemoryRateLimitStore,
// data.RedisRateLimitStore).
type RateLimitStore interface {
	// Increment records one request for clientID and returns the total
	// count observed in the current window plus the time remaining until
	// the window resets.
	Increment(ctx context.Context, clientID string, window time.Duration) (count int, remaining time.Duration, err error)
}

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed    bool
	Count      int
	RetryAfter int64 // seconds until the window resets; set when denied
}
