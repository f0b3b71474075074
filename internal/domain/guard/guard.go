// Package guard provides the time-bounded operation token that throttles
// class move requests.
//
// At most one token exists at a time. While it is held, an identical
// request and any competing request are both refused rather than queued.
// The token always frees itself after the configured window, whether or
// not the guarded operation finished, which is what absorbs double-clicks
// and mid-animation repeats.
package guard

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Guard is the single-slot, self-releasing operation token.
type Guard interface {
	// TryAcquire takes the token for key. It returns false while any token
	// is held, whether for the same key or a different one.
	TryAcquire(ctx context.Context, key string) bool

	// Release frees the token early if key still holds it. The timer makes
	// this optional; it exists as an explicit completion signal.
	Release(ctx context.Context, key string)

	// HeldKey returns the key currently holding the token, if any.
	HeldKey() (string, bool)
}

// Key builds the token key for a class move.
func Key(wave int, class, direction string) string {
	return fmt.Sprintf("%d|%s|%s", wave, class, direction)
}

// timedGuard implements Guard with a mutex-protected slot and a
// time.AfterFunc self-release. The generation counter keeps a late-firing
// timer from clearing a newer acquisition of the same key.
type timedGuard struct {
	mu     sync.Mutex
	key    string
	held   bool
	gen    uint64
	timer  *time.Timer
	window time.Duration
}

// NewTimedGuard creates a guard with the default window, adjustable via
// options.
func NewTimedGuard(opts ...Option) Guard {
	g := &timedGuard{
		window: defaultWindow,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *timedGuard) TryAcquire(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held {
		return false
	}

	g.held = true
	g.key = key
	g.gen++
	gen := g.gen
	g.timer = time.AfterFunc(g.window, func() { g.expire(gen) })
	return true
}

func (g *timedGuard) Release(_ context.Context, key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.held || g.key != key {
		return
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	g.clear()
}

func (g *timedGuard) HeldKey() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.key, g.held
}

// expire is the timer path for one specific acquisition.
func (g *timedGuard) expire(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held && g.gen == gen {
		g.clear()
	}
}

func (g *timedGuard) clear() {
	g.held = false
	g.key = ""
	g.timer = nil
}
