package data

import (
	"context"
	"fmt"
	"time"

	"ClearCut/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// RateLimitStore mirrors biz.RateLimitStore so the selector below can be
// bound to the biz interface without an import cycle.
type RateLimitStore interface {
	Increment(ctx context.Context, clientID string, window time.Duration) (count int, remaining time.Duration, err error)
}

// NewRateLimitStore selects the configured rate limit store backend.
func NewRateLimitStore(c *conf.RateLimit, rdb *redis.Client, logger log.Logger) (RateLimitStore, error) {
	switch c.Store {
	case conf.RateLimitStoreRedis:
		if rdb == nil {
			return nil, fmt.Errorf("rate limit store %q requires a Redis connection", c.Store)
		}
		return NewRedisRateLimitStore(rdb, logger), nil
	case conf.RateLimitStoreMemory, "":
		return NewMemoryRateLimitStore(int(c.MaxClients), logger)
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", c.Store)
	}
}
