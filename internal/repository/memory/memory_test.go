package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triplog/internal/repository"
)

func TestSlotStore_ReadMissing(t *testing.T) {
	t.Parallel()

	s := NewSlotStore()
	_, err := s.Read(context.Background(), "trips")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSlotStore_WriteReplacesAndCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewSlotStore()

	value := []byte(`[{"id":"1"}]`)
	require.NoError(t, s.Write(ctx, "trips", value))
	value[0] = 'X'

	got, err := s.Read(ctx, "trips")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, s.Write(ctx, "trips", []byte(`[]`)))
	got, err = s.Read(ctx, "trips")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestLockStore_AcquireRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewLockStore()

	ok, err := s.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second acquire must fail while held")

	require.NoError(t, s.Release(ctx, "k"))

	ok, err = s.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockStore_Expires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewLockStore()
	s.now = func() time.Time { return now }

	ok, _ := s.Acquire(ctx, "k", time.Second)
	require.True(t, ok)

	now = now.Add(2 * time.Second)
	ok, err := s.Acquire(ctx, "k", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock must be reacquirable")
}
