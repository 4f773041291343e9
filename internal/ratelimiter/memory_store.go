package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local CounterStore. Used in tests and available
// as a fallback for single-instance deployments without Redis; counts are
// lost on restart and not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*memoryBucket
}

type memoryBucket struct {
	count       int64
	windowStart time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]*memoryBucket)}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]
	if !ok || now.Sub(b.windowStart) >= window {
		b = &memoryBucket{windowStart: now}
		s.buckets[key] = b
	}
	b.count++
	return b.count, nil
}
