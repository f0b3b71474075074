package ingest

import (
	"errors"
)

// Sentinel kinds for ingest errors.
var (
	ErrEmptyFile       = errors.New("empty input file")
	ErrMissingIdentity = errors.New("no driver or number column")
	ErrMalformedRow    = errors.New("malformed row")
	ErrNoTable         = errors.New("no results table")
)
