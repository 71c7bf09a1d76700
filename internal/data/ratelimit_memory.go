package data

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultMaxClients = 4096

// rateRecord is one client's fixed window state.
type rateRecord struct {
	windowStart time.Time
	count       int
}

// MemoryRateLimitStore keeps fixed-window counters in process memory.
// An LRU cache bounds the number of tracked clients, so a flood of
// distinct source addresses cannot grow the map without limit. Evicting
// an active client resets its window, which errs on the permissive side.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	clients *lru.Cache[string, *rateRecord]
	logger  *log.Helper
}

// NewMemoryRateLimitStore creates an in-memory store tracking at most
// maxClients distinct clients.
func NewMemoryRateLimitStore(maxClients int, logger log.Logger) (*MemoryRateLimitStore, error) {
	if maxClients <= 0 {
		maxClients = defaultMaxClients
	}
	cache, err := lru.New[string, *rateRecord](maxClients)
	if err != nil {
		return nil, fmt.Errorf("create client cache: %w", err)
	}
	return &MemoryRateLimitStore{
		clients: cache,
		logger:  log.NewHelper(logger),
	}, nil
}

// Increment implements the rate limit store contract.
func (s *MemoryRateLimitStore) Increment(_ context.Context, clientID string, window time.Duration) (int, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(now, window)

	rec, ok := s.clients.Get(clientID)
	if !ok || now.Sub(rec.windowStart) > window {
		rec = &rateRecord{windowStart: now, count: 1}
		s.clients.Add(clientID, rec)
		return 1, window, nil
	}

	rec.count++
	remaining := window - now.Sub(rec.windowStart)
	return rec.count, remaining, nil
}

// sweep drops records whose window has fully elapsed. The LRU already
// bounds memory; this keeps long-idle clients from occupying slots.
func (s *MemoryRateLimitStore) sweep(now time.Time, window time.Duration) {
	for _, key := range s.clients.Keys() {
		rec, ok := s.clients.Peek(key)
		if ok && now.Sub(rec.windowStart) > window {
			s.clients.Remove(key)
		}
	}
}

// Len reports how many clients are currently tracked.
func (s *MemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients.Len()
}
