package auth

import (
	"sync"
	"time"
)

// NonceGuard tracks single-use nonces within a validity window to prevent
// request replay. Uniqueness is global, not per token: a nonce captured from
// one token's request cannot be replayed under another token.
type NonceGuard struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time // nonce -> expiry
}

// NewNonceGuard creates a guard with the given replay window.
func NewNonceGuard(window time.Duration) *NonceGuard {
	return &NonceGuard{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

// Consume marks nonce as used, failing with ErrReplayDetected if it was
// already consumed within its window. Insertion doubles as the single-use
// check; nonces are never looked up read-only.
func (g *NonceGuard) Consume(nonce string, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if exp, ok := g.seen[nonce]; ok && exp.After(now) {
		return ErrReplayDetected
	}
	g.seen[nonce] = now.Add(g.window)
	return nil
}

// Sweep removes nonce entries whose window has elapsed. Called
// opportunistically alongside token sweeps.
func (g *NonceGuard) Sweep(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for nonce, exp := range g.seen {
		if !exp.After(now) {
			delete(g.seen, nonce)
		}
	}
}

// TrackedCount returns the number of tracked nonce entries, including any
// not yet swept.
func (g *NonceGuard) TrackedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}
