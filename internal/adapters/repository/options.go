package repository

import (
	"time"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/domain/guard"
)

// defaultMaxWaves bounds accepted wave configuration sets.
const defaultMaxWaves = 16

// Option applies a configuration option to the SessionStore.
type Option func(*SessionStore)

// WithGuard injects the class move guard, mostly for tests.
func WithGuard(g guard.Guard) Option {
	return func(s *SessionStore) {
		if g != nil {
			s.tokens = g
		}
	}
}

// WithGuardWindow sets the class move guard window.
func WithGuardWindow(window time.Duration) Option {
	return func(s *SessionStore) {
		if window > 0 {
			s.tokens = guard.NewTimedGuard(guard.WithWindow(window))
		}
	}
}

// WithMaxWaves caps the accepted wave configuration set size. Zero or
// negative disables the cap.
func WithMaxWaves(n int) Option {
	return func(s *SessionStore) {
		s.maxWaves = n
	}
}
