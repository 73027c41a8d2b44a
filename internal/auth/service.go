package auth

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/papergate/internal/common"
)

// Service composes the gateway core behind the single surface route handlers
// use. Callers run the checks in this order: token validity first (no replay
// or signature work for unauthenticated callers), then Authenticate, then
// Admit last so correctness rejections never consume a rate slot.
type Service struct {
	logger *common.Logger

	masterKey     string
	masterKeyHash string

	tempKeys      *TempKeyDeriver
	tokens        *TokenStore
	nonces        *NonceGuard
	limiter       *RateLimiter
	authenticator *Authenticator
}

// NewService wires the core from config.
func NewService(cfg *common.AuthConfig, logger *common.Logger) *Service {
	s := &Service{
		logger:        logger,
		masterKey:     cfg.MasterKey,
		masterKeyHash: cfg.MasterKeyHash,
		tempKeys:      NewTempKeyDeriver(cfg.TempKeySalt),
		nonces:        NewNonceGuard(cfg.GetNonceWindow()),
		limiter:       NewRateLimiter(cfg.RateLimitPerMinute, time.Minute),
	}
	s.tokens = NewTokenStore(cfg.GetTokenTTL(), s.limiter.Forget)
	s.authenticator = NewAuthenticator(s.nonces, cfg.GetTimestampSkew())
	return s
}

// verifyAccessKey reports whether key is the configured master secret or the
// current hourly temporal key.
func (s *Service) verifyAccessKey(key string, now time.Time) bool {
	if s.masterKeyHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(s.masterKeyHash), []byte(key)) == nil {
			return true
		}
	} else if s.masterKey != "" {
		if subtle.ConstantTimeCompare([]byte(key), []byte(s.masterKey)) == 1 {
			return true
		}
	}
	return s.tempKeys.Verify(key, now)
}

// IssueToken validates the presented access key and issues a fresh bearer
// token. When clientID is empty a generated one is recorded so issuance can
// still be attributed in logs. Fails with ErrInvalidAccessKey.
func (s *Service) IssueToken(accessKey, clientID string) (string, time.Time, error) {
	now := time.Now()
	if !s.verifyAccessKey(accessKey, now) {
		return "", time.Time{}, ErrInvalidAccessKey
	}

	if clientID == "" {
		clientID = "anon-" + uuid.New().String()[:8]
	}

	token, expiresAt, err := s.tokens.Issue(clientID)
	if err != nil {
		return "", time.Time{}, err
	}

	// Nonce entries age out on the same opportunistic schedule as tokens.
	s.nonces.Sweep(now)

	s.logger.Debug().
		Str("client_id", clientID).
		Time("expires_at", expiresAt).
		Msg("Issued access token")

	return token, expiresAt, nil
}

// ValidateToken reports whether token is present and unexpired.
func (s *Service) ValidateToken(token string) bool {
	ok := s.tokens.Validate(token)
	s.nonces.Sweep(time.Now())
	return ok
}

// Authenticate runs the freshness/replay/signature checks for one protected
// request.
func (s *Service) Authenticate(token string, timestamp int64, nonce, signature, bodyDigest string) error {
	return s.authenticator.Authenticate(token, timestamp, nonce, signature, bodyDigest, time.Now())
}

// Admit records a request against token's sliding window, failing with
// ErrRateLimited once the ceiling is reached.
func (s *Service) Admit(token string) error {
	if !s.limiter.Admit(token, time.Now()) {
		return ErrRateLimited
	}
	return nil
}

// ActiveTokens returns the number of currently valid tokens, for /health.
func (s *Service) ActiveTokens() int {
	return s.tokens.ActiveCount()
}

// TempKey returns the temporal key for the current UTC hour. Exposed for
// operational tooling in non-production environments.
func (s *Service) TempKey() string {
	return s.tempKeys.Derive(time.Now())
}
