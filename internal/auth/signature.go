package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ComputeSignature returns the hex SHA-256 digest binding a token, a unix
// timestamp, a nonce, and the request's body digest. Clients compute the
// identical value over UTF-8 bytes, so the concatenation order is wire
// format.
func ComputeSignature(token string, timestamp int64, nonce, bodyDigest string) string {
	data := fmt.Sprintf("%s%d%s%s", token, timestamp, nonce, bodyDigest)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Authenticator decides admit/reject for one protected request. It checks
// freshness, replay, and signature in that fixed order, failing fast; token
// validity and rate limiting are composed separately by the caller.
type Authenticator struct {
	nonces *NonceGuard
	skew   time.Duration
}

// NewAuthenticator creates an authenticator using the given replay guard and
// maximum timestamp skew.
func NewAuthenticator(nonces *NonceGuard, skew time.Duration) *Authenticator {
	return &Authenticator{nonces: nonces, skew: skew}
}

// Authenticate validates one signed request at now:
//
//  1. freshness: |now - timestamp| must be within the skew (ErrRequestExpired)
//  2. replay: the nonce is consumed exactly once (ErrReplayDetected)
//  3. signature: sha256(token + timestamp + nonce + bodyDigest) must match,
//     compared in constant time (ErrInvalidSignature)
//
// The nonce stays consumed even when the signature check fails afterwards:
// replay protection binds to the attempt, not its outcome.
func (a *Authenticator) Authenticate(token string, timestamp int64, nonce, signature, bodyDigest string, now time.Time) error {
	delta := now.Unix() - timestamp
	if delta < 0 {
		delta = -delta
	}
	if delta > int64(a.skew.Seconds()) {
		return ErrRequestExpired
	}

	if err := a.nonces.Consume(nonce, now); err != nil {
		return err
	}

	expected := ComputeSignature(token, timestamp, nonce, bodyDigest)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return ErrInvalidSignature
	}

	return nil
}
