package postgres

import (
	"context"
	"database/sql"
	"errors"

	"triplog/internal/repository"
)

const createSlotsTable = `
	CREATE TABLE IF NOT EXISTS slots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SlotStore is a PostgreSQL implementation of repository.SlotStore.
type SlotStore struct {
	q Querier
}

// NewSlotStore creates a slot store over a pool or a transaction.
func NewSlotStore(q Querier) *SlotStore {
	return &SlotStore{q: q}
}

// EnsureSchema creates the slots table if it does not exist.
func (s *SlotStore) EnsureSchema(ctx context.Context) error {
	_, err := s.q.ExecContext(ctx, createSlotsTable)
	return err
}

// Read returns the value stored under key.
func (s *SlotStore) Read(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM slots WHERE key = $1`

	var value string
	err := s.q.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return []byte(value), nil
}

// Write replaces the value stored under key.
func (s *SlotStore) Write(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	_, err := s.q.ExecContext(ctx, query, key, string(value))
	return err
}

// Ensure SlotStore implements repository.SlotStore.
var _ repository.SlotStore = (*SlotStore)(nil)
