package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"triplog/internal/domain"
	"triplog/internal/maps"
	"triplog/internal/observability"
)

// SubmissionLocker guards a submission while its distance is being resolved.
type SubmissionLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// TripServiceConfig holds the creation-flow limits.
type TripServiceConfig struct {
	ResolveTimeout time.Duration
	LockTTL        time.Duration
}

// TripService handles trip creation, deletion and reporting.
type TripService struct {
	store    *TripStore
	resolver maps.DistanceResolver
	locker   SubmissionLocker
	cfg      TripServiceConfig
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTripService creates a new TripService.
func NewTripService(
	store *TripStore,
	resolver maps.DistanceResolver,
	locker SubmissionLocker,
	cfg TripServiceConfig,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *TripService {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &TripService{
		store:    store,
		resolver: resolver,
		locker:   locker,
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
	}
}

// CreateTripRequest contains the parameters for recording a trip.
type CreateTripRequest struct {
	Date          string
	StartLocation string
	EndLocation   string
	Comment       string
}

// ResolutionError reports a failed distance resolution. It carries the
// request exactly as submitted, before trimming or date defaulting, so the
// caller can hand it back unchanged.
type ResolutionError struct {
	Reason  string
	Request CreateTripRequest
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("distance resolution failed (%s): %v", e.Reason, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Summary is the aggregate view of the store.
type Summary struct {
	Count   int
	TotalKm float64
}

// CreateTrip validates the request, resolves its distance and stores the new trip.
// No trip is stored unless resolution succeeds.
func (s *TripService) CreateTrip(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	submitted := req
	req.StartLocation = strings.TrimSpace(req.StartLocation)
	req.EndLocation = strings.TrimSpace(req.EndLocation)
	req.Date = strings.TrimSpace(req.Date)

	if err := validateCreate(req); err != nil {
		s.metrics.SubmissionsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}
	if req.Date == "" {
		req.Date = domain.Today()
	}

	key := submissionKey(req)
	release, err := s.acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	defer release()

	km, err := s.resolve(ctx, req, submitted)
	if err != nil {
		return nil, err
	}

	trip := domain.Trip{
		ID:            uuid.New().String(),
		Date:          req.Date,
		StartLocation: req.StartLocation,
		EndLocation:   req.EndLocation,
		Distance:      km,
		Comment:       req.Comment,
	}

	if err := s.store.Add(ctx, trip); err != nil {
		return nil, fmt.Errorf("store trip: %w", err)
	}

	s.metrics.TripsCreated.Inc()
	s.logger.Info("trip created",
		"trip_id", trip.ID,
		"date", trip.Date,
		"km", trip.Distance,
	)
	return &trip, nil
}

// DeleteTrip removes a trip by id. Unknown ids are ignored.
func (s *TripService) DeleteTrip(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidTripID
	}

	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if removed {
		s.metrics.TripsDeleted.Inc()
		s.logger.Info("trip deleted", "trip_id", id)
	}
	return nil
}

// ListTrips returns all trips, newest first.
func (s *TripService) ListTrips() []domain.Trip {
	return s.store.List()
}

// Summary returns the trip count and total distance.
func (s *TripService) Summary() Summary {
	trips := s.store.List()
	return Summary{Count: len(trips), TotalKm: domain.TotalDistance(trips)}
}

func validateCreate(req CreateTripRequest) error {
	if req.StartLocation == "" {
		return ErrInvalidStartLocation
	}
	if req.EndLocation == "" {
		return ErrInvalidEndLocation
	}
	if req.Date != "" && !domain.ValidDate(req.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}
	return nil
}

// acquire takes the submission guard for key and returns its release func.
// A guard backend failure is logged and the submission proceeds unguarded.
func (s *TripService) acquire(ctx context.Context, key string) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}

	ok, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL)
	if err != nil {
		s.logger.Warn("submission guard unavailable", "error", err)
		return func() {}, nil
	}
	if !ok {
		s.metrics.SubmissionsRejected.WithLabelValues("pending").Inc()
		return nil, ErrSubmissionPending
	}

	return func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("submission guard release failed", "error", err)
		}
	}, nil
}

type resolution struct {
	km  float64
	err error
}

// resolve performs the single resolver call, bounded by the configured timeout.
// Failures carry submitted for the caller to echo.
func (s *TripService) resolve(ctx context.Context, req, submitted CreateTripRequest) (float64, error) {
	rctx := ctx
	if s.cfg.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, s.cfg.ResolveTimeout)
		defer cancel()
	}

	done := make(chan resolution, 1)
	go func() {
		km, err := s.resolver.Distance(rctx, req.StartLocation, req.EndLocation)
		done <- resolution{km: km, err: err}
	}()

	var res resolution
	select {
	case res = <-done:
	case <-rctx.Done():
		res.err = rctx.Err()
	}

	if res.err == nil && !validDistance(res.km) {
		res.err = fmt.Errorf("%w: resolver returned %v km", ErrInvalidDistance, res.km)
	}

	if res.err != nil {
		err := res.err
		if errors.Is(rctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w after %s: %w", ErrResolutionTimeout, s.cfg.ResolveTimeout, err)
		}
		reason := maps.Reason(err)
		s.metrics.DistanceRequests.WithLabelValues(reason).Inc()
		s.logger.Warn("distance resolution failed",
			"start", req.StartLocation,
			"end", req.EndLocation,
			"reason", reason,
			"error", err,
		)
		return 0, &ResolutionError{Reason: reason, Request: submitted, Err: err}
	}

	s.metrics.DistanceRequests.WithLabelValues("success").Inc()
	return res.km, nil
}

// submissionKey identifies a submission by its normalized content.
func submissionKey(req CreateTripRequest) string {
	return "submission:" + strings.Join([]string{
		strings.ToLower(req.StartLocation),
		strings.ToLower(req.EndLocation),
		req.Date,
		req.Comment,
	}, "|")
}
