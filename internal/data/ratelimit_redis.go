package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// RedisRateLimitStore keeps fixed-window counters in Redis so multiple
// instances share one limit. Uses INCR with an expiration set on the
// first increment of each window.
type RedisRateLimitStore struct {
	rdb    *redis.Client
	logger *log.Helper
}

// NewRedisRateLimitStore creates a Redis-backed store.
func NewRedisRateLimitStore(rdb *redis.Client, logger log.Logger) *RedisRateLimitStore {
	return &RedisRateLimitStore{
		rdb:    rdb,
		logger: log.NewHelper(logger),
	}
}

// Increment implements the rate limit store contract.
func (s *RedisRateLimitStore) Increment(ctx context.Context, clientID string, window time.Duration) (int, time.Duration, error) {
	key := rateLimitKey(clientID)

	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	if count == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			s.logger.Warnf("Failed to set window expiration for %s: %v", clientID, err)
		}
		return int(count), window, nil
	}

	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		// TTL lookup failed or the key lost its expiration; report a full
		// window rather than failing the request.
		if ttl == -1 {
			if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
				s.logger.Warnf("Failed to repair window expiration for %s: %v", clientID, err)
			}
		}
		return int(count), window, nil
	}

	return int(count), ttl, nil
}

func rateLimitKey(clientID string) string {
	return fmt.Sprintf("rate:%s:req", clientID)
}
