package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"triplog/internal/config"
	internalRedis "triplog/internal/redis"
	"triplog/internal/repository"
	"triplog/internal/repository/file"
	"triplog/internal/repository/memory"
	"triplog/internal/repository/postgres"
	"triplog/internal/service"
)

// Storage bundles the slot backend and submission guard selected by config.
type Storage struct {
	Slot   repository.SlotStore
	Locker service.SubmissionLocker
	Redis  *redis.Client // nil unless the redis backend is selected

	closers []func() error
}

// NewStorage connects the configured backend.
func NewStorage(ctx context.Context, cfg *config.Config, nrApp *newrelic.Application, logger *slog.Logger) (*Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client, err := NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to redis", "addr", cfg.Redis.Addr)
		return &Storage{
			Slot:    internalRedis.NewSlotStore(client),
			Locker:  internalRedis.NewLockStore(client),
			Redis:   client,
			closers: []func() error{client.Close},
		}, nil

	case config.BackendPostgres:
		db, err := NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			return nil, err
		}
		slot := postgres.NewSlotStore(db)
		if err := slot.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create slots table: %w", err)
		}
		logger.Info("connected to postgres", "host", cfg.Database.Host, "db", cfg.Database.DBName)
		return &Storage{
			Slot:    slot,
			Locker:  memory.NewLockStore(),
			closers: []func() error{db.Close},
		}, nil

	case config.BackendFile:
		slot, err := file.NewSlotStore(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		logger.Info("using file trip storage", "dir", cfg.Storage.Dir)
		return &Storage{
			Slot:   slot,
			Locker: memory.NewLockStore(),
		}, nil

	case config.BackendMemory:
		logger.Warn("using in-memory trip storage; trips are lost on restart")
		return &Storage{
			Slot:   memory.NewSlotStore(),
			Locker: memory.NewLockStore(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Close releases backend connections.
func (s *Storage) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
