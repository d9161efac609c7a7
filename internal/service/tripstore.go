package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"triplog/internal/domain"
	"triplog/internal/observability"
	"triplog/internal/repository"
)

// TripStore owns the ordered trip collection and mirrors it to a single slot.
// Trips are kept newest first.
type TripStore struct {
	slot    repository.SlotStore
	key     string
	logger  *slog.Logger
	metrics *observability.Metrics

	mu    sync.RWMutex
	trips []domain.Trip
}

// NewTripStore creates an empty TripStore backed by slot under key.
// Call Load to hydrate it.
func NewTripStore(slot repository.SlotStore, key string, logger *slog.Logger, metrics *observability.Metrics) *TripStore {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &TripStore{
		slot:    slot,
		key:     key,
		logger:  logger,
		metrics: metrics,
		trips:   []domain.Trip{},
	}
}

// Load replaces the in-memory collection with the persisted one.
// A missing or malformed slot leaves the store empty without error; only a
// backend read failure is returned, and the store is empty in that case too.
func (s *TripStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trips = []domain.Trip{}
	defer func() { s.metrics.TripsStored.Set(float64(len(s.trips))) }()

	data, err := s.slot.Read(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Info("trip slot empty", "slot", s.key)
		return nil
	}
	if err != nil {
		s.metrics.SlotLoadFailures.WithLabelValues("read").Inc()
		return fmt.Errorf("read slot %q: %w", s.key, err)
	}

	trips, err := decodeTrips(data)
	if err != nil {
		s.metrics.SlotLoadFailures.WithLabelValues("malformed").Inc()
		s.logger.Warn("discarding malformed trip slot", "slot", s.key, "error", err)
		return nil
	}

	s.trips = trips
	s.logger.Info("trips loaded", "slot", s.key, "count", len(trips))
	return nil
}

// Add prepends trip and persists the full collection.
func (s *TripStore) Add(ctx context.Context, trip domain.Trip) error {
	if trip.ID == "" {
		return ErrInvalidTripID
	}
	if !validDistance(trip.Distance) {
		return ErrInvalidDistance
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.trips {
		if t.ID == trip.ID {
			return ErrDuplicateTripID
		}
	}

	next := make([]domain.Trip, 0, len(s.trips)+1)
	next = append(next, trip)
	next = append(next, s.trips...)

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.trips = next
	s.metrics.TripsStored.Set(float64(len(next)))
	return nil
}

// Remove deletes the trip with the given id and persists the full collection.
// Removing an unknown id is a no-op and reports false.
func (s *TripStore) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, t := range s.trips {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	next := make([]domain.Trip, 0, len(s.trips)-1)
	next = append(next, s.trips[:idx]...)
	next = append(next, s.trips[idx+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.trips = next
	s.metrics.TripsStored.Set(float64(len(next)))
	return true, nil
}

// List returns a copy of the collection in display order.
func (s *TripStore) List() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Trip, len(s.trips))
	copy(out, s.trips)
	return out
}

// Total returns the sum of all trip distances.
func (s *TripStore) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.TotalDistance(s.trips)
}

// Len returns the number of stored trips.
func (s *TripStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.trips)
}

// persist writes trips to the slot. Callers hold s.mu.
func (s *TripStore) persist(ctx context.Context, trips []domain.Trip) error {
	data, err := json.Marshal(trips)
	if err != nil {
		return fmt.Errorf("encode trips: %w", err)
	}

	if err := s.slot.Write(ctx, s.key, data); err != nil {
		s.metrics.SlotWrites.WithLabelValues("error").Inc()
		s.logger.Error("trip slot write failed", "slot", s.key, "error", err)
		return fmt.Errorf("write slot %q: %w", s.key, err)
	}
	s.metrics.SlotWrites.WithLabelValues("success").Inc()
	return nil
}

// decodeTrips parses a persisted slot. Blank and null values decode to an
// empty collection; records without an id, with a bad distance, or with a
// repeated id make the whole slot malformed.
func decodeTrips(data []byte) ([]domain.Trip, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []domain.Trip{}, nil
	}

	var trips []domain.Trip
	if err := json.Unmarshal(data, &trips); err != nil {
		return nil, err
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}

	seen := make(map[string]struct{}, len(trips))
	for i, t := range trips {
		if t.ID == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
		if !validDistance(t.Distance) {
			return nil, fmt.Errorf("record %d: %w", i, ErrInvalidDistance)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("record %d: %w %q", i, ErrDuplicateTripID, t.ID)
		}
		seen[t.ID] = struct{}{}
	}
	return trips, nil
}

func validDistance(km float64) bool {
	return km >= 0 && !math.IsInf(km, 0) && !math.IsNaN(km)
}
