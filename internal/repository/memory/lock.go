package memory

import (
	"context"
	"sync"
	"time"
)

// LockStore is an in-process lock table with per-key expiry.
type LockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

// NewLockStore creates an empty LockStore.
func NewLockStore() *LockStore {
	return &LockStore{
		locks: make(map[string]time.Time),
		now:   time.Now,
	}
}

// Acquire takes the lock for key unless it is held and unexpired.
// Returns true if the lock was acquired.
func (s *LockStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.locks[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.locks[key] = now.Add(ttl)
	return true, nil
}

// Release drops the lock for key.
func (s *LockStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.locks, key)
	return nil
}
