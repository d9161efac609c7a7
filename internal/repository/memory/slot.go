package memory

import (
	"context"
	"sync"

	"triplog/internal/repository"
)

// SlotStore is an in-process implementation of repository.SlotStore.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewSlotStore creates an empty in-memory slot store.
func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[string][]byte)}
}

// Read returns a copy of the value stored under key.
func (s *SlotStore) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Write stores a copy of value under key.
func (s *SlotStore) Write(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = append([]byte(nil), value...)
	return nil
}

// Ensure SlotStore implements repository.SlotStore.
var _ repository.SlotStore = (*SlotStore)(nil)
