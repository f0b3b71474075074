package guard

import "time"

// defaultWindow is how long a token lives when no completion signal frees
// it earlier.
const defaultWindow = 750 * time.Millisecond

// Option applies a configuration option to the timed guard.
type Option func(*timedGuard)

// WithWindow sets the self-release window. Non-positive values keep the
// default.
func WithWindow(window time.Duration) Option {
	return func(g *timedGuard) {
		if window > 0 {
			g.window = window
		}
	}
}
