package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"triplog/internal/app"
	"triplog/internal/config"
	"triplog/internal/handler"
	"triplog/internal/observability"
	"triplog/internal/service"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before storage so we can instrument it).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Warn("failed to initialize New Relic", "error", err)
		} else {
			logger.Info("New Relic enabled", "app", cfg.NewRelic.AppName)
		}
	}

	storage, err := app.NewStorage(ctx, cfg, nrApp, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	server := wireServer(ctx, cfg, storage, nrApp, reg, metrics, logger)

	// Start server in goroutine.
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port, "storage", cfg.Storage.Backend, "maps", cfg.Maps.Provider)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if nrApp != nil {
		nrApp.Shutdown(cfg.Server.ShutdownTimeout)
	}

	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	ctx context.Context,
	cfg *config.Config,
	storage *app.Storage,
	nrApp *newrelic.Application,
	reg *prometheus.Registry,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *http.Server {
	// Hydrate the store. A backend read failure leaves it empty.
	store := service.NewTripStore(storage.Slot, cfg.Storage.SlotKey, logger, metrics)
	if err := store.Load(ctx); err != nil {
		logger.Warn("starting with an empty trip log", "error", err)
	}

	mapsProvider := app.NewMapsProvider(cfg.Maps, logger, metrics)

	tripService := service.NewTripService(store, mapsProvider, storage.Locker, service.TripServiceConfig{
		ResolveTimeout: cfg.Maps.Timeout,
		LockTTL:        cfg.Submission.LockTTL,
	}, logger, metrics)

	router := app.NewRouter(app.RouterDeps{
		TripHandler:    handler.NewTripHandler(tripService),
		PlaceHandler:   handler.NewPlaceHandler(mapsProvider),
		RedisClient:    storage.Redis,
		NewRelicApp:    nrApp,
		Gatherer:       reg,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
