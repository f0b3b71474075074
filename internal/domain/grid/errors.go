package grid

import "errors"

// Sentinel kinds for grid build errors. These allow errors.Is from callers.
var (
	ErrNoWaves             = errors.New("no waves configured")
	ErrWaveNumbering       = errors.New("wave numbers must run contiguously from 1")
	ErrStartTypeOrder      = errors.New("flying start wave cannot follow a standing start wave")
	ErrClassOverlap        = errors.New("class assigned to more than one wave")
	ErrInvalidConfig       = errors.New("invalid wave configuration")
	ErrNoRecords           = errors.New("no results loaded")
	ErrNoQualifyingEntries = errors.New("no entries qualify for the configured waves")
)
