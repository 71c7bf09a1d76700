package biz

import (
	"context"
	"math"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"ClearCut/internal/conf"
	clog "ClearCut/pkg/log"
)

// RateLimiterUseCase applies a fixed-window request limit per client.
// Every request increments the client's window counter first; a denied
// request therefore still consumes its slot.
type RateLimiterUseCase struct {
	store  RateLimitStore
	window time.Duration
	max    int
	logger *clog.LogHelper
}

// NewRateLimiterUseCase creates a new rate limiter use case.
func NewRateLimiterUseCase(c *conf.RateLimit, store RateLimitStore, logger log.Logger) *RateLimiterUseCase {
	return &RateLimiterUseCase{
		store:  store,
		window: c.Window.AsDuration(),
		max:    int(c.MaxRequests),
		logger: clog.NewLogHelper(logger),
	}
}

// Max returns the configured per-window request limit.
func (uc *RateLimiterUseCase) Max() int {
	return uc.max
}

// Check records one request for clientID and decides whether it may
// proceed. A store failure allows the request through: degraded limiting
// beats refusing service.
func (uc *RateLimiterUseCase) Check(ctx context.Context, clientID string) Decision {
	count, remaining, err := uc.store.Increment(ctx, clientID, uc.window)
	if err != nil {
		uc.logger.WithContext(ctx).Warnw(
			"msg", "rate limit store unavailable, allowing request",
			"client_id", clientID,
			"error", err.Error(),
			"type", "rate_limit",
		)
		return Decision{Allowed: true}
	}

	if count > uc.max {
		retryAfter := int64(math.Ceil(remaining.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		uc.logger.RateLimit("Rate limit exceeded",
			"client_id", clientID,
			"count", count,
			"limit", uc.max,
			"retry_after", retryAfter,
		)
		return Decision{Allowed: false, Count: count, RetryAfter: retryAfter}
	}

	return Decision{Allowed: true, Count: count}
}
