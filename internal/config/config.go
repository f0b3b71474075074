// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env overrides on top.
// - External errors must be wrapped via this package's sentinel kinds.
package config

import (
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the size of one results file upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// GuardWindowMS sets the class move guard window in milliseconds.
	// While a move token is live, repeated and competing class moves
	// are dropped.
	GuardWindowMS int `koanf:"guard_window_ms"`

	// MaxWaves caps the accepted wave configuration set size.
	MaxWaves int `koanf:"max_waves"`
}

// New creates a Config with the service defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		MaxUploadBytes: 10 << 20,
		GuardWindowMS:  750,
		MaxWaves:       16,
	}
}

// GuardWindow returns the class move guard window as a duration.
func (c *Config) GuardWindow() time.Duration {
	return time.Duration(c.GuardWindowMS) * time.Millisecond
}
