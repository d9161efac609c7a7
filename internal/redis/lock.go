package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockPrefix = "triplog:lock:"

// releaseScript deletes the lock only while it still carries our token, so a
// release after expiry cannot drop a lock another instance has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore guards in-flight submissions with expiring Redis keys.
type LockStore struct {
	client *redis.Client
	owner  string
}

// NewLockStore creates a new LockStore with a unique owner token.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client, owner: uuid.New().String()}
}

// Acquire attempts to acquire the lock for key.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, lockPrefix+key, s.owner, ttl).Result()
}

// Release releases the lock for key if this store still holds it.
func (s *LockStore) Release(ctx context.Context, key string) error {
	return releaseScript.Run(ctx, s.client, []string{lockPrefix + key}, s.owner).Err()
}
