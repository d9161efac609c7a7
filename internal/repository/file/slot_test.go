package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triplog/internal/repository"
)

func TestSlotStore_ReadMissing(t *testing.T) {
	store, err := NewSlotStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "trips")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSlotStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewSlotStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, "trips", []byte(`[{"id":"1"}]`)))
	require.NoError(t, store.Write(ctx, "trips", []byte(`[{"id":"2"},{"id":"1"}]`)))

	reopened, err := NewSlotStore(dir)
	require.NoError(t, err)
	got, err := reopened.Read(ctx, "trips")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"2"},{"id":"1"}]`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "trips.json", entries[0].Name())
}

func TestSlotStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewSlotStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Write(context.Background(), "trips", []byte("[]")))

	_, err = os.Stat(filepath.Join(dir, "trips.json"))
	assert.NoError(t, err)
}

func TestSlotStore_RejectsPathKeys(t *testing.T) {
	store, err := NewSlotStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", ".", "..", "../escape", "a/b"} {
		assert.Error(t, store.Write(context.Background(), key, []byte("[]")), key)
		_, err := store.Read(context.Background(), key)
		assert.Error(t, err, key)
	}
}
