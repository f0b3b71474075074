package service

import "errors"

// ErrNotStarted rejects session operations before Start or after Stop.
var ErrNotStarted = errors.New("service not started")
