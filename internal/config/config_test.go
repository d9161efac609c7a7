package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, "trips", cfg.Storage.SlotKey)
	assert.Equal(t, "data", cfg.Storage.Dir)
	assert.Equal(t, ProviderMock, cfg.Maps.Provider)
	assert.Equal(t, 10*time.Second, cfg.Maps.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Submission.LockTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.NewRelic.Enabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Redis")
	t.Setenv("STORAGE_SLOT_KEY", "my-trips")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("MAPS_PROVIDER", "google")
	t.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	t.Setenv("MAPS_TIMEOUT", "3s")
	t.Setenv("MAPS_LANGUAGE", "de")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://trips.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "my-trips", cfg.Storage.SlotKey)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, ProviderGoogle, cfg.Maps.Provider)
	assert.Equal(t, "test-key", cfg.Maps.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Maps.Timeout)
	assert.Equal(t, "de", cfg.Maps.Language)
	assert.Equal(t, []string{"http://localhost:3000", "https://trips.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_InvalidDurationFallsBackToDefault(t *testing.T) {
	t.Setenv("MAPS_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Maps.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{
			name:  "unknown backend",
			env:   map[string]string{"STORAGE_BACKEND": "localstorage"},
			field: "STORAGE_BACKEND",
		},
		{
			name:  "blank storage dir",
			env:   map[string]string{"STORAGE_BACKEND": "file", "STORAGE_DIR": "  "},
			field: "STORAGE_DIR",
		},
		{
			name:  "slot key with path",
			env:   map[string]string{"STORAGE_SLOT_KEY": "../trips"},
			field: "STORAGE_SLOT_KEY",
		},
		{
			name:  "unknown provider",
			env:   map[string]string{"MAPS_PROVIDER": "osm"},
			field: "MAPS_PROVIDER",
		},
		{
			name:  "google without key",
			env:   map[string]string{"MAPS_PROVIDER": "google"},
			field: "GOOGLE_MAPS_API_KEY",
		},
		{
			name:  "lock shorter than timeout",
			env:   map[string]string{"MAPS_TIMEOUT": "20s", "SUBMISSION_LOCK_TTL": "5s"},
			field: "SUBMISSION_LOCK_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOOGLE_MAPS_API_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
