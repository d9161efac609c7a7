package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"triplog/internal/maps"
	"triplog/internal/repository"
)

var errUnknownRoute = fmt.Errorf("mock resolver: %w", maps.ErrNoRoute)

// ──────────────────────────────────────────────
// MOCK SLOT STORE
// ──────────────────────────────────────────────

// MockSlotStore is a mock implementation of repository.SlotStore.
type MockSlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte

	// Counters for verification
	ReadCallCount  int32
	WriteCallCount int32

	// Error injection
	ReadError  error
	WriteError error
}

// NewMockSlotStore creates a new mock slot store.
func NewMockSlotStore() *MockSlotStore {
	return &MockSlotStore{
		slots: make(map[string][]byte),
	}
}

// Seed stores raw slot content, bypassing counters.
func (m *MockSlotStore) Seed(key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = []byte(value)
}

// Raw returns the stored slot content for assertions.
func (m *MockSlotStore) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return string(v), ok
}

func (m *MockSlotStore) Read(ctx context.Context, key string) ([]byte, error) {
	atomic.AddInt32(&m.ReadCallCount, 1)
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MockSlotStore) Write(ctx context.Context, key string, value []byte) error {
	atomic.AddInt32(&m.WriteCallCount, 1)
	if m.WriteError != nil {
		return m.WriteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

// Writes returns the number of Write calls.
func (m *MockSlotStore) Writes() int32 {
	return atomic.LoadInt32(&m.WriteCallCount)
}

// ──────────────────────────────────────────────
// MOCK DISTANCE RESOLVER
// ──────────────────────────────────────────────

// MockResolver is a deterministic maps.DistanceResolver.
type MockResolver struct {
	mu        sync.Mutex
	distances map[string]float64

	// Counters for verification
	CallCount int32

	// Error injection
	Err error

	// Delay holds every call for the given duration or until ctx is done.
	Delay time.Duration

	// Block, when set, holds every call until it is closed.
	Block chan struct{}

	// Started receives one value per call as it begins, if set.
	Started chan struct{}
}

// NewMockResolver creates a resolver with no known routes.
func NewMockResolver() *MockResolver {
	return &MockResolver{distances: make(map[string]float64)}
}

// SetDistance registers the distance for origin → destination.
func (m *MockResolver) SetDistance(origin, destination string, km float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.distances[origin+"|"+destination] = km
}

func (m *MockResolver) Distance(ctx context.Context, origin, destination string) (float64, error) {
	atomic.AddInt32(&m.CallCount, 1)
	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	km, ok := m.distances[origin+"|"+destination]
	if !ok {
		return 0, errUnknownRoute
	}
	return km, nil
}

// Calls returns the number of Distance calls.
func (m *MockResolver) Calls() int32 {
	return atomic.LoadInt32(&m.CallCount)
}

// ──────────────────────────────────────────────
// MOCK SUBMISSION LOCKER
// ──────────────────────────────────────────────

// MockLocker is a mock implementation of service.SubmissionLocker.
type MockLocker struct {
	mu   sync.Mutex
	held map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLocker creates a new mock locker.
func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]bool)}
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] {
		return false, nil
	}
	m.held[key] = true
	return true, nil
}

func (m *MockLocker) Release(ctx context.Context, key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	return nil
}

// Held returns the number of currently held locks.
func (m *MockLocker) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.held)
}
