package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps revoked token IDs in process memory. Used when Redis is
// not configured; revocations are not shared between processes and are lost on
// restart, so multi-process deployments should use RedisStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time // jti -> expiry of the revocation entry
}

// NewMemoryStore creates an in-process revocation store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time)}
}

func (s *MemoryStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[jti] = time.Now().Add(ttl)

	// Drop expired entries while we hold the lock
	now := time.Now()
	for id, exp := range s.entries {
		if exp.Before(now) {
			delete(s.entries, id)
		}
	}
	return nil
}

func (s *MemoryStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exp, ok := s.entries[jti]
	if !ok {
		return false, nil
	}
	return exp.After(time.Now()), nil
}
