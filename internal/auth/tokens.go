package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

// tokenRecord tracks one issued bearer token. Records are never mutated after
// creation; they are removed on expiry.
type tokenRecord struct {
	createdAt time.Time
	expiresAt time.Time
	clientID  string
}

// TokenStore issues and validates opaque bearer tokens with a fixed TTL.
// All state is memory-resident and owned exclusively by the store; the map is
// only touched under the mutex.
type TokenStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]tokenRecord

	// onExpire is invoked (outside the lock) for each token removed by a
	// sweep, so associated per-token state such as rate windows can be
	// discarded with it.
	onExpire func(token string)

	// now is swappable for tests.
	now func() time.Time
}

// NewTokenStore creates a token store with the given TTL. onExpire may be nil.
func NewTokenStore(ttl time.Duration, onExpire func(token string)) *TokenStore {
	return &TokenStore{
		ttl:      ttl,
		tokens:   make(map[string]tokenRecord),
		onExpire: onExpire,
		now:      time.Now,
	}
}

// Issue generates a fresh random token, records it with the store's TTL, and
// returns the token value and its expiry. Already-expired tokens are swept
// before the new one is inserted.
func (s *TokenStore) Issue(clientID string) (string, time.Time, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	now := s.now()
	expiresAt := now.Add(s.ttl)

	s.mu.Lock()
	expired := s.sweepLocked(now)
	s.tokens[token] = tokenRecord{
		createdAt: now,
		expiresAt: expiresAt,
		clientID:  clientID,
	}
	s.mu.Unlock()

	s.notifyExpired(expired)
	return token, expiresAt, nil
}

// Validate reports whether token is present and unexpired. An expired token
// is deleted as a side effect, and other expired entries are swept
// opportunistically. This keeps store size bounded without a background
// task, at the cost of O(n) work piggybacked on the occasional request.
func (s *TokenStore) Validate(token string) bool {
	now := s.now()

	s.mu.Lock()
	expired := s.sweepLocked(now)
	rec, ok := s.tokens[token]
	if ok && !rec.expiresAt.After(now) {
		delete(s.tokens, token)
		expired = append(expired, token)
		ok = false
	}
	s.mu.Unlock()

	s.notifyExpired(expired)
	return ok
}

// ActiveCount returns the number of currently tracked unexpired tokens.
func (s *TokenStore) ActiveCount() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, rec := range s.tokens {
		if rec.expiresAt.After(now) {
			count++
		}
	}
	return count
}

// sweepLocked removes expired tokens and returns their values. Caller holds
// the mutex.
func (s *TokenStore) sweepLocked(now time.Time) []string {
	var expired []string
	for token, rec := range s.tokens {
		if !rec.expiresAt.After(now) {
			delete(s.tokens, token)
			expired = append(expired, token)
		}
	}
	return expired
}

func (s *TokenStore) notifyExpired(tokens []string) {
	if s.onExpire == nil {
		return
	}
	for _, token := range tokens {
		s.onExpire(token)
	}
}
