package auth

import (
	"sync"
	"time"
)

// RateLimiter enforces a maximum request count per token within a sliding
// time window. Windows are independent per token; there is no global ceiling
// across tokens.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	ceiling int
	windows map[string][]time.Time
}

// NewRateLimiter creates a limiter admitting up to ceiling requests per token
// within the trailing window.
func NewRateLimiter(ceiling int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		window:  window,
		ceiling: ceiling,
		windows: make(map[string][]time.Time),
	}
}

// Admit records a request for token at now and reports whether it is within
// the ceiling. Timestamps older than the window are dropped first; an
// admitted request appends exactly one timestamp.
func (l *RateLimiter) Admit(token string, now time.Time) bool {
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.windows[token][:0]
	for _, ts := range l.windows[token] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.ceiling {
		l.windows[token] = recent
		return false
	}

	l.windows[token] = append(recent, now)
	return true
}

// Forget discards the window for token. Called when the owning token expires.
func (l *RateLimiter) Forget(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, token)
}

// WindowSize returns the number of retained timestamps for token.
func (l *RateLimiter) WindowSize(token string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows[token])
}
