// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// BaseDir is the install location data/ and models/ are resolved against.
	// Empty means the directory of the running executable.
	BaseDir string `koanf:"base_dir"`
	// DataPath overrides the resolved default dataset path.
	DataPath string `koanf:"data_path"`
	// ModelPath overrides the resolved model artifact path.
	ModelPath string `koanf:"model_path"`
	// RecommendationsPath points at a YAML rules file that must exist. Empty
	// means scripts/recommendations.yaml when present, else built-in rules.
	RecommendationsPath string `koanf:"recommendations_path"`

	// MaxUploadBytes caps a single CSV upload; at most 1 GiB.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0,lte=1073741824"`
	// SessionTTL is how long an idle session keeps its uploaded dataset.
	SessionTTL time.Duration `koanf:"session_ttl" validate:"gt=0"`
	// SessionSweepInterval is how often idle sessions are evicted.
	SessionSweepInterval time.Duration `koanf:"session_sweep_interval" validate:"gt=0"`
	// MaxSessions bounds the number of sessions kept in memory.
	MaxSessions int `koanf:"max_sessions" validate:"gt=0"`
	// MetricsInterval is how often system gauges are refreshed.
	MetricsInterval time.Duration `koanf:"metrics_interval" validate:"gt=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		MaxUploadBytes:       10 << 20,
		SessionTTL:           2 * time.Hour,
		SessionSweepInterval: 5 * time.Minute,
		MaxSessions:          1_000,
		MetricsInterval:      10 * time.Second,
	}
}

// Paths returns the dataset and model locations after applying explicit
// overrides on top of the paths resolved from BaseDir.
func (c *Config) Paths() (Paths, error) {
	base := c.BaseDir
	if base == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return Paths{}, err
		}
		base = dir
	}
	p := ResolvePaths(base)
	if c.DataPath != "" {
		p.DataPath = c.DataPath
	}
	if c.ModelPath != "" {
		p.ModelPath = c.ModelPath
	}
	if c.RecommendationsPath != "" {
		p.RulesPath = c.RecommendationsPath
		p.RulesRequired = true
	}
	return p, nil
}
