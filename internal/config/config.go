package config

import (
	"os"
	"strconv"

	"gopower/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Sweep    SweepConfig
}

// DatabaseConfig holds the optional result-store connection settings. An
// empty URL means sweeps are kept in memory only.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// SweepConfig holds the default sweep parameters the surfaces fall back to
// when a request leaves them unset.
type SweepConfig struct {
	Replicates int
	Threshold  float64
	Workers    int
	Seed       int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:   ServerConfig{Port: getEnv("PORT", "8080")},
		Sweep: SweepConfig{
			Replicates: 1000,
			Threshold:  3,
			Workers:    0, // one per CPU
			Seed:       42,
		},
	}

	if v := os.Getenv("SWEEP_REPLICATES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errors.ConfigInvalid("SWEEP_REPLICATES must be a positive integer")
		}
		cfg.Sweep.Replicates = n
	}
	if v := os.Getenv("SWEEP_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("SWEEP_THRESHOLD must be a number")
		}
		cfg.Sweep.Threshold = t
	}
	if v := os.Getenv("SWEEP_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errors.ConfigInvalid("SWEEP_WORKERS must be a non-negative integer")
		}
		cfg.Sweep.Workers = n
	}
	if v := os.Getenv("SWEEP_SEED"); v != "" {
		s, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errors.ConfigInvalid("SWEEP_SEED must be an integer")
		}
		cfg.Sweep.Seed = s
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
