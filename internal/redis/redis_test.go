package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triplog/internal/repository"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestSlotStore_ReadMissing(t *testing.T) {
	client, _ := newTestClient(t)
	store := NewSlotStore(client)

	_, err := store.Read(context.Background(), "trips")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSlotStore_WriteThenRead(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewSlotStore(client)
	ctx := context.Background()

	require.NoError(t, store.Write(ctx, "trips", []byte(`[{"id":"a"}]`)))

	got, err := store.Read(ctx, "trips")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	raw, err := mr.Get("triplog:slot:trips")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, raw)
	assert.Zero(t, mr.TTL("triplog:slot:trips"), "slots must not expire")
}

func TestSlotStore_BackendDown(t *testing.T) {
	client, mr := newTestClient(t)
	store := NewSlotStore(client)
	mr.Close()

	_, err := store.Read(context.Background(), "trips")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestLockStore_AcquireIsExclusive(t *testing.T) {
	client, mr := newTestClient(t)
	locks := NewLockStore(client)
	ctx := context.Background()

	ok, err := locks.Acquire(ctx, "submission", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = locks.Acquire(ctx, "submission", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, locks.Release(ctx, "submission"))
	assert.False(t, mr.Exists("triplog:lock:submission"))

	ok, err = locks.Acquire(ctx, "submission", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockStore_Expires(t *testing.T) {
	client, mr := newTestClient(t)
	locks := NewLockStore(client)
	ctx := context.Background()

	ok, err := locks.Acquire(ctx, "submission", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	ok, err = locks.Acquire(ctx, "submission", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockStore_ReleaseKeepsForeignLock(t *testing.T) {
	client, mr := newTestClient(t)
	first := NewLockStore(client)
	second := NewLockStore(client)
	ctx := context.Background()

	ok, err := first.Acquire(ctx, "submission", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)

	ok, err = second.Acquire(ctx, "submission", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// The first holder's lock expired; its late release must not free the key.
	require.NoError(t, first.Release(ctx, "submission"))
	assert.True(t, mr.Exists("triplog:lock:submission"))

	require.NoError(t, second.Release(ctx, "submission"))
	assert.False(t, mr.Exists("triplog:lock:submission"))
}
