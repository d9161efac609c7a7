package app

import (
	"log/slog"

	"triplog/internal/config"
	"triplog/internal/maps"
	"triplog/internal/observability"
)

// MapsProvider resolves distances and suggests places.
type MapsProvider interface {
	maps.DistanceResolver
	maps.PlaceAutocompleter
}

// NewMapsProvider returns the provider selected by config.
func NewMapsProvider(cfg config.MapsConfig, logger *slog.Logger, metrics *observability.Metrics) MapsProvider {
	if cfg.Provider == config.ProviderGoogle {
		return maps.NewGoogleClient(cfg, logger, metrics)
	}
	logger.Warn("using mock maps provider", "locations", "Berlin, Munich, Hamburg, Cologne, Frankfurt")
	return maps.NewMockClient()
}
