package config

import (
	"os"
	"strconv"
	"time"

	"salespulse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Service  ServiceConfig
	Data     DataConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// ServiceConfig holds the external time-series service settings. The API
// key loaded here may be overridden per request by an interactively
// supplied value.
type ServiceConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// DataConfig holds the input file path and column mapping defaults
type DataConfig struct {
	FilePath     string
	DateColumn   string
	ValueColumn  string
	EntityColumn string
}

// AnalysisConfig holds regularization and forecasting defaults
type AnalysisConfig struct {
	WindowDays int
	Horizon    int
	Level      float64
}

// Load reads configuration from environment variables and validates it.
// main merges an optional .env file into the environment before calling.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("SERVER_PORT", "8080"),
		},
		Service: ServiceConfig{
			URL:     os.Getenv("SERVICE_URL"),
			APIKey:  os.Getenv("SERVICE_API_KEY"),
			Timeout: time.Duration(getEnvIntOrDefault("SERVICE_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Data: DataConfig{
			FilePath:     getEnvOrDefault("DATA_FILE", ""),
			DateColumn:   getEnvOrDefault("DATE_COLUMN", ""),
			ValueColumn:  getEnvOrDefault("VALUE_COLUMN", ""),
			EntityColumn: getEnvOrDefault("ENTITY_COLUMN", ""),
		},
		Analysis: AnalysisConfig{
			WindowDays: getEnvIntOrDefault("WINDOW_DAYS", 180),
			Horizon:    getEnvIntOrDefault("HORIZON", 7),
			Level:      getEnvFloatOrDefault("CONFIDENCE_LEVEL", 99.0),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Service.URL == "" {
		return errors.ConfigError("SERVICE_URL is required")
	}
	if cfg.Analysis.WindowDays <= 0 {
		return errors.ConfigError("WINDOW_DAYS must be positive")
	}
	if cfg.Analysis.Horizon <= 0 {
		return errors.ConfigError("HORIZON must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
