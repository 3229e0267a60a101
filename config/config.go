// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the locohub application settings.
// Environment variables override values read from the YAML file.
type Config struct {
	// SpecDir is a directory of <task>.md range specs overriding the
	// embedded defaults.
	SpecDir string `yaml:"spec_dir" env:"LOCOHUB_SPEC_DIR"`

	// PointsPerCycle is the expected samples per gait cycle.
	PointsPerCycle int `yaml:"points_per_cycle" env:"LOCOHUB_POINTS_PER_CYCLE"`

	// WorkerCount bounds concurrent dataset validation in batch mode.
	WorkerCount int `yaml:"worker_count" env:"LOCOHUB_WORKER_COUNT"`

	// HistoryDB is the path of the SQLite run history database.
	// Empty disables history recording.
	HistoryDB string `yaml:"history_db" env:"LOCOHUB_HISTORY_DB"`

	// MaxNaNShare is the per-variable non-finite sample fraction
	// tolerated before a warning is raised.
	MaxNaNShare float64 `yaml:"max_nan_share" env:"LOCOHUB_MAX_NAN_SHARE"`

	// Strict treats warnings as errors.
	Strict bool `yaml:"strict" env:"LOCOHUB_STRICT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PointsPerCycle: 150,
		WorkerCount:    4,
		MaxNaNShare:    0.05,
	}
}

// Load reads configuration from an optional YAML file and applies
// environment overrides. An empty path or a missing file falls back to
// defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.PointsPerCycle <= 0 {
		return fmt.Errorf("points_per_cycle must be positive, got %d", c.PointsPerCycle)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("worker_count must be positive, got %d", c.WorkerCount)
	}
	if c.MaxNaNShare < 0 || c.MaxNaNShare > 1 {
		return fmt.Errorf("max_nan_share must be in [0, 1], got %g", c.MaxNaNShare)
	}
	return nil
}
