package config

import (
	"strings"
	"time"

	"github.com/marmos91/shopkeep/pkg/catalog/store"
	"github.com/marmos91/shopkeep/pkg/uploads/local"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
// Zero values are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyShutdownTimeoutDefaults(cfg)
	cfg.Database.ApplyDefaults()
	applyUploadsDefaults(&cfg.Uploads)
	cfg.API.ApplyDefaults()
}

// applyLoggingDefaults sets logging defaults and normalizes the level.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:4317"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 1.0
	}

	if cfg.Profiling.Endpoint == "" {
		cfg.Profiling.Endpoint = "http://localhost:4040"
	}
	if len(cfg.Profiling.ProfileTypes) == 0 {
		cfg.Profiling.ProfileTypes = []string{
			"cpu",
			"alloc_objects",
			"alloc_space",
			"inuse_objects",
			"inuse_space",
			"goroutines",
		}
	}
}

func applyShutdownTimeoutDefaults(cfg *Config) {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
}

func applyUploadsDefaults(cfg *UploadsConfig) {
	if cfg.Type == "" {
		cfg.Type = UploadsTypeLocal
	}
	if cfg.Type == UploadsTypeLocal && cfg.Local.Root == "" {
		cfg.Local.Root = local.DefaultRoot
	}
}

// GetDefaultConfig returns a Config with all default values applied.
// Used to seed the loader and to generate sample configuration files.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Database: store.Config{Type: store.DatabaseTypeSQLite},
		Uploads:  UploadsConfig{Type: UploadsTypeLocal},
	}
	ApplyDefaults(cfg)
	return cfg
}
