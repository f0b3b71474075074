package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrNoGrid        = errors.New("grid not built")
	ErrFileNotFound  = errors.New("file not found")
	ErrDuplicateFile = errors.New("file already uploaded")
	ErrTooManyWaves  = errors.New("too many waves")
)
