package data

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T, maxClients int) *MemoryRateLimitStore {
	store, err := NewMemoryRateLimitStore(maxClients, log.NewStdLogger(os.Stdout))
	require.NoError(t, err)
	return store
}

func TestMemoryIncrement_CountsWithinWindow(t *testing.T) {
	store := newMemoryStore(t, 16)
	ctx := context.Background()

	for i := 1; i <= 11; i++ {
		count, remaining, err := store.Increment(ctx, "203.0.113.7", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
		assert.Greater(t, remaining, time.Duration(0))
		assert.LessOrEqual(t, remaining, time.Minute)
	}
}

func TestMemoryIncrement_WindowResets(t *testing.T) {
	store := newMemoryStore(t, 16)
	ctx := context.Background()
	window := 20 * time.Millisecond

	for i := 0; i < 5; i++ {
		_, _, err := store.Increment(ctx, "c", window)
		require.NoError(t, err)
	}

	time.Sleep(window + 5*time.Millisecond)

	count, remaining, err := store.Increment(ctx, "c", window)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, window, remaining)
}

func TestMemoryIncrement_ClientsIsolated(t *testing.T) {
	store := newMemoryStore(t, 16)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _, err := store.Increment(ctx, "a", time.Minute)
		require.NoError(t, err)
	}

	count, _, err := store.Increment(ctx, "b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryIncrement_SweepDropsExpired(t *testing.T) {
	store := newMemoryStore(t, 16)
	ctx := context.Background()
	window := 10 * time.Millisecond

	for i := 0; i < 8; i++ {
		_, _, err := store.Increment(ctx, fmt.Sprintf("client-%d", i), window)
		require.NoError(t, err)
	}
	assert.Equal(t, 8, store.Len())

	time.Sleep(window + 5*time.Millisecond)

	_, _, err := store.Increment(ctx, "fresh", window)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryIncrement_BoundedByMaxClients(t *testing.T) {
	store := newMemoryStore(t, 4)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_, _, err := store.Increment(ctx, fmt.Sprintf("client-%d", i), time.Minute)
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, store.Len(), 4)
}

func TestMemoryIncrement_Concurrent(t *testing.T) {
	store := newMemoryStore(t, 16)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, _, err := store.Increment(ctx, "shared", time.Minute)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	count, _, err := store.Increment(ctx, "shared", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 101, count)
}
