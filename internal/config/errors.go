package config

import "errors"

// Configuration failures callers can match with errors.Is.
var (
	// ErrInvalidConfig marks a loaded configuration that failed validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a failure reading or merging configuration sources.
	ErrLoadConfig = errors.New("load config failed")
)
