package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the trip log.
type Metrics struct {
	TripsCreated prometheus.Counter
	TripsDeleted prometheus.Counter
	TripsStored  prometheus.Gauge

	// Slot persistence.
	SlotWrites       *prometheus.CounterVec // labels: outcome={success,error}
	SlotLoadFailures *prometheus.CounterVec // labels: reason={read,malformed}

	// Distance and autocomplete provider calls.
	DistanceRequests    *prometheus.CounterVec   // labels: outcome={success,service-unavailable,no-route,ambiguous-location}
	ProviderAPIDuration *prometheus.HistogramVec // labels: method={distance,autocomplete,details}

	SubmissionsRejected *prometheus.CounterVec // labels: reason={validation,pending}
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.TripsCreated,
		m.TripsDeleted,
		m.TripsStored,
		m.SlotWrites,
		m.SlotLoadFailures,
		m.DistanceRequests,
		m.ProviderAPIDuration,
		m.SubmissionsRejected,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build
// as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		TripsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "triplog",
			Name:      "trips_created_total",
			Help:      "Trips created after a successful distance resolution.",
		}),
		TripsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "triplog",
			Name:      "trips_deleted_total",
			Help:      "Trips removed by id.",
		}),
		TripsStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "triplog",
			Name:      "trips_stored",
			Help:      "Number of trips currently held by the store.",
		}),
		SlotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triplog",
			Name:      "slot_writes_total",
			Help:      "Whole-list writes to the persistence slot by outcome.",
		}, []string{"outcome"}),
		SlotLoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triplog",
			Name:      "slot_load_failures_total",
			Help:      "Slot loads that fell back to an empty list.",
		}, []string{"reason"}),
		DistanceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triplog",
			Name:      "distance_requests_total",
			Help:      "Distance resolutions by outcome.",
		}, []string{"outcome"}),
		ProviderAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "triplog",
			Name:      "provider_api_duration_seconds",
			Help:      "Maps provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method"}),
		SubmissionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triplog",
			Name:      "submissions_rejected_total",
			Help:      "Trip submissions rejected before resolution.",
		}, []string{"reason"}),
	}
}
