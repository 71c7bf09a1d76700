package data

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return rdb, mr
}

func TestRedisIncrement_FirstRequest(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	defer rdb.Close()

	store := NewRedisRateLimitStore(rdb, log.NewStdLogger(os.Stdout))
	ctx := context.Background()

	count, remaining, err := store.Increment(ctx, "203.0.113.7", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, time.Minute, remaining)

	ttl := mr.TTL(rateLimitKey("203.0.113.7"))
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisIncrement_CountsWithinWindow(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	defer rdb.Close()

	store := NewRedisRateLimitStore(rdb, log.NewStdLogger(os.Stdout))
	ctx := context.Background()

	for i := 1; i <= 11; i++ {
		count, _, err := store.Increment(ctx, "203.0.113.7", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}
}

func TestRedisIncrement_RemainingShrinks(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	defer rdb.Close()

	store := NewRedisRateLimitStore(rdb, log.NewStdLogger(os.Stdout))
	ctx := context.Background()

	_, _, err := store.Increment(ctx, "c", time.Minute)
	require.NoError(t, err)

	mr.FastForward(40 * time.Second)

	_, remaining, err := store.Increment(ctx, "c", time.Minute)
	require.NoError(t, err)
	assert.LessOrEqual(t, remaining, 20*time.Second)
	assert.Greater(t, remaining, time.Duration(0))
}

func TestRedisIncrement_WindowResets(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	defer rdb.Close()

	store := NewRedisRateLimitStore(rdb, log.NewStdLogger(os.Stdout))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.Increment(ctx, "c", time.Minute)
		require.NoError(t, err)
	}

	mr.FastForward(61 * time.Second)

	count, remaining, err := store.Increment(ctx, "c", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, time.Minute, remaining)
}

func TestRedisIncrement_ClientsIsolated(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	defer rdb.Close()

	store := NewRedisRateLimitStore(rdb, log.NewStdLogger(os.Stdout))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _, err := store.Increment(ctx, "a", time.Minute)
		require.NoError(t, err)
	}

	count, _, err := store.Increment(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRedisIncrement_ConnectionError(t *testing.T) {
	rdb, mr := setupTestRedis(t)

	store := NewRedisRateLimitStore(rdb, log.NewStdLogger(os.Stdout))
	ctx := context.Background()

	mr.Close()
	rdb.Close()

	_, _, err := store.Increment(ctx, "c", time.Minute)
	assert.Error(t, err)
}
