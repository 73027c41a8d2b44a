package auth

import "errors"

// Sentinel errors for every way the gateway can refuse a request. Handlers
// map these to stable HTTP status codes; nothing here is retryable by the
// gateway itself.
var (
	ErrInvalidAccessKey = errors.New("invalid access key")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrRequestExpired   = errors.New("request expired")
	ErrReplayDetected   = errors.New("nonce already used")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrRateLimited      = errors.New("rate limit exceeded")
)
