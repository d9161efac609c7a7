package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"triplog/internal/repository"
)

const slotPrefix = "triplog:slot:"

// SlotStore persists named slots as plain Redis strings.
type SlotStore struct {
	client *redis.Client
}

// NewSlotStore creates a new SlotStore.
func NewSlotStore(client *redis.Client) *SlotStore {
	return &SlotStore{client: client}
}

// Read returns the value stored under key.
func (s *SlotStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, slotPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write replaces the value stored under key. Slots never expire.
func (s *SlotStore) Write(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, slotPrefix+key, value, 0).Err()
}

var _ repository.SlotStore = (*SlotStore)(nil)
