package data

import (
	"context"
	"time"

	"ClearCut/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client for the shared rate limit store.
// Redis is optional: with no address configured the client is nil and the
// in-memory store is used instead. Connection failure does not prevent
// application startup.
func NewRedisClient(c *conf.Data, logger log.Logger) (*redis.Client, func(), error) {
	helper := log.NewHelper(logger)

	if c == nil || c.Redis == nil || c.Redis.Addr == "" {
		helper.Info("Redis not configured, shared rate limiting unavailable")
		return nil, func() {}, nil
	}

	readTimeout := 3 * time.Second
	if c.Redis.ReadTimeout != nil {
		readTimeout = c.Redis.ReadTimeout.AsDuration()
	}
	writeTimeout := 3 * time.Second
	if c.Redis.WriteTimeout != nil {
		writeTimeout = c.Redis.WriteTimeout.AsDuration()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:            c.Redis.Addr,
		PoolSize:        100,
		MinIdleConns:    10,
		DialTimeout:     3 * time.Second,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		// Keep the client: Redis may come up later and the limiter degrades
		// gracefully in the meantime.
		helper.Warnf("Failed to connect to Redis at %s: %v (application will continue)", c.Redis.Addr, err)
	} else {
		helper.Infof("Successfully connected to Redis at %s", c.Redis.Addr)
	}

	cleanup := func() {
		helper.Info("Closing Redis client")
		if err := rdb.Close(); err != nil {
			helper.Errorf("Failed to close Redis client: %v", err)
		}
	}

	return rdb, cleanup, nil
}
