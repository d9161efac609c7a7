package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a slot has never been written.
var ErrNotFound = errors.New("slot not found")

// SlotStore persists opaque values under named slots. Each write replaces
// the whole value.
type SlotStore interface {
	// Read returns the value stored under key.
	// Returns ErrNotFound if the slot has never been written.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the value stored under key.
	Write(ctx context.Context, key string, value []byte) error
}
