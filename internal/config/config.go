// Package config loads and validates the application configuration from
// the environment, with .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Data      DataConfig
	Aggregate AggregateConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional result archive connection; an empty
// URL disables persistence.
type DatabaseConfig struct {
	URL string
}

// DataConfig holds data source settings
type DataConfig struct {
	// DatasetFile is an .xlsx or .csv population matrix loaded at startup.
	DatasetFile string
}

// AggregateConfig tunes the aggregation engine
type AggregateConfig struct {
	// ExactThreshold is the selection size above which summaries switch
	// to the streaming path.
	ExactThreshold int
	// ReservoirSize is the quantile sample size on the streaming path.
	ReservoirSize int
	// Seed drives reservoir sampling; fixed for reproducible runs.
	Seed int64
}

// Load reads configuration from the environment. A .env file is applied
// first when present; real environment variables win.
func Load() (*Config, error) {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:    envOr("PORT", "8080"),
			GinMode: envOr("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Data: DataConfig{
			DatasetFile: os.Getenv("DATASET_FILE"),
		},
		Aggregate: AggregateConfig{
			ExactThreshold: 50000,
			ReservoirSize:  1000,
			Seed:           1,
		},
	}

	var err error
	if cfg.Aggregate.ExactThreshold, err = envInt("AGG_EXACT_THRESHOLD", cfg.Aggregate.ExactThreshold); err != nil {
		return nil, err
	}
	if cfg.Aggregate.ReservoirSize, err = envInt("AGG_RESERVOIR_SIZE", cfg.Aggregate.ReservoirSize); err != nil {
		return nil, err
	}
	seed, err := envInt("AGG_SEED", int(cfg.Aggregate.Seed))
	if err != nil {
		return nil, err
	}
	cfg.Aggregate.Seed = int64(seed)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Aggregate.ExactThreshold < 1 {
		return fmt.Errorf("AGG_EXACT_THRESHOLD must be positive, got %d", c.Aggregate.ExactThreshold)
	}
	if c.Aggregate.ReservoirSize < 2 {
		return fmt.Errorf("AGG_RESERVOIR_SIZE must be at least 2, got %d", c.Aggregate.ReservoirSize)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
