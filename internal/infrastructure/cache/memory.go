package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the single-instance fallback for RedisStore
type MemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
	stop    chan struct{}
}

// NewMemoryStore creates a new in-memory store and starts its janitor
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	go store.cleanupExpired(5 * time.Minute)

	return store
}

// MarkOnce records key for ttl. It returns false when the key is still recorded.
func (ms *MemoryStore) MarkOnce(_ context.Context, key string, ttl time.Duration) (bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	if exp, ok := ms.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	ms.expires[key] = now.Add(ttl)
	return true, nil
}

// Release forgets key so the next MarkOnce succeeds again
func (ms *MemoryStore) Release(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.expires, key)
	return nil
}

// Close stops the janitor
func (ms *MemoryStore) Close() {
	close(ms.stop)
}

func (ms *MemoryStore) cleanupExpired(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.mu.Lock()
			now := ms.now()
			for key, exp := range ms.expires {
				if !now.Before(exp) {
					delete(ms.expires, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
