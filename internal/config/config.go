package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Maps providers.
const (
	ProviderGoogle = "google"
	ProviderMock   = "mock"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Maps       MapsConfig
	Submission SubmissionConfig
	Log        LogConfig
	NewRelic   NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// StorageConfig selects where the trip slot is persisted.
type StorageConfig struct {
	Backend string
	SlotKey string
	Dir     string // file backend only
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// MapsConfig holds distance and autocomplete provider configuration.
type MapsConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Language string
	Region   string
}

// SubmissionConfig controls the in-flight submission guard.
type SubmissionConfig struct {
	LockTTL time.Duration
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Format string
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// ConfigError describes an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Load loads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),
			AllowedOrigins:  getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
			SlotKey: getEnv("STORAGE_SLOT_KEY", "trips"),
			Dir:     getEnv("STORAGE_DIR", "data"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			DBName:       getEnv("DB_NAME", "triplog"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 4),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
			PoolSize: getIntEnv("REDIS_POOL_SIZE", 10),
		},
		Maps: MapsConfig{
			Provider: strings.ToLower(getEnv("MAPS_PROVIDER", ProviderMock)),
			APIKey:   getEnv("GOOGLE_MAPS_API_KEY", ""),
			BaseURL:  getEnv("MAPS_BASE_URL", "https://maps.googleapis.com/maps/api"),
			Timeout:  getDurationEnv("MAPS_TIMEOUT", 10*time.Second),
			Language: getEnv("MAPS_LANGUAGE", ""),
			Region:   getEnv("MAPS_REGION", ""),
		},
		Submission: SubmissionConfig{
			LockTTL: getDurationEnv("SUBMISSION_LOCK_TTL", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "triplog"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Storage.Dir) == "" {
			return &ConfigError{Field: "STORAGE_DIR", Message: "required when STORAGE_BACKEND=file"}
		}
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return &ConfigError{Field: "STORAGE_BACKEND", Message: fmt.Sprintf("unknown backend %q", c.Storage.Backend)}
	}

	if key := strings.TrimSpace(c.Storage.SlotKey); key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return &ConfigError{Field: "STORAGE_SLOT_KEY", Message: "must be a plain name"}
	}

	switch c.Maps.Provider {
	case ProviderMock:
	case ProviderGoogle:
		if c.Maps.APIKey == "" {
			return &ConfigError{Field: "GOOGLE_MAPS_API_KEY", Message: "required when MAPS_PROVIDER=google"}
		}
	default:
		return &ConfigError{Field: "MAPS_PROVIDER", Message: fmt.Sprintf("unknown provider %q", c.Maps.Provider)}
	}

	if c.Maps.Timeout <= 0 {
		return &ConfigError{Field: "MAPS_TIMEOUT", Message: "must be positive"}
	}
	if c.Submission.LockTTL < c.Maps.Timeout {
		return &ConfigError{Field: "SUBMISSION_LOCK_TTL", Message: "must not be shorter than MAPS_TIMEOUT"}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
