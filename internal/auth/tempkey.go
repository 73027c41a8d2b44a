// Package auth implements the gateway core: temporal key derivation, token
// issuance and validation, replay-nonce tracking, request signatures, and
// per-token rate limiting.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// tempKeyLen is the hex prefix length of a derived temporal key. Existing
// clients compute the same prefix, so this is wire format, not tuning.
const tempKeyLen = 32

// TempKeyDeriver derives a rotating shared secret from a fixed salt and the
// current UTC calendar hour. The derived value is recomputed on every call
// rather than cached, so it rotates at each hour boundary with no
// invalidation logic.
type TempKeyDeriver struct {
	salt string
}

// NewTempKeyDeriver creates a deriver for the given salt. The salt must match
// the one compiled into distributed clients.
func NewTempKeyDeriver(salt string) *TempKeyDeriver {
	return &TempKeyDeriver{salt: salt}
}

// Derive returns the temporal key for the UTC hour containing now.
func (d *TempKeyDeriver) Derive(now time.Time) string {
	hour := now.UTC().Format("2006-01-02-15")
	sum := sha256.Sum256([]byte(d.salt + hour))
	return hex.EncodeToString(sum[:])[:tempKeyLen]
}

// Verify reports whether candidate equals the temporal key for the current
// UTC hour. A key derived in the previous hour is rejected the moment the
// hour rolls over.
func (d *TempKeyDeriver) Verify(candidate string, now time.Time) bool {
	expected := d.Derive(now)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(expected)) == 1
}
