package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/bobmcallan/papergate/internal/auth"
	"github.com/bobmcallan/papergate/internal/models"
)

// handleAuthToken handles POST /auth/token — exchange the master secret or
// the current hourly temporal key for a bearer token.
func (s *Server) handleAuthToken(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.TokenRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	token, expiresAt, err := s.app.Auth.IssueToken(req.MasterKey, req.ClientID)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidAccessKey) {
			WriteError(w, http.StatusUnauthorized, "Invalid key")
			return
		}
		s.logger.Error().Err(err).Msg("Token issuance failed")
		WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	WriteJSON(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// admitSigned runs the full admission sequence for a protected request:
// bearer token validity, then freshness/replay/signature, then the rate
// limit last so correctness rejections never consume a rate slot. Returns
// the token and true on admission; writes the error response otherwise.
func (s *Server) admitSigned(w http.ResponseWriter, r *http.Request, signed models.SignedRequest, bodyDigest string) (string, bool) {
	token := BearerToken(r)
	if token == "" {
		WriteError(w, http.StatusUnauthorized, "Invalid authorization header")
		return "", false
	}

	if !s.app.Auth.ValidateToken(token) {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return "", false
	}

	if err := s.app.Auth.Authenticate(token, signed.Timestamp, signed.Nonce, signed.Signature, bodyDigest); err != nil {
		writeAuthError(w, err)
		return "", false
	}

	if err := s.app.Auth.Admit(token); err != nil {
		writeAuthError(w, err)
		return "", false
	}

	return token, true
}

// writeAuthError maps a gateway auth error to its stable status and message.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrRequestExpired):
		WriteError(w, http.StatusUnauthorized, "Request expired")
	case errors.Is(err, auth.ErrReplayDetected):
		WriteError(w, http.StatusUnauthorized, "Nonce already used")
	case errors.Is(err, auth.ErrInvalidSignature):
		WriteError(w, http.StatusUnauthorized, "Invalid signature")
	case errors.Is(err, auth.ErrRateLimited):
		WriteError(w, http.StatusTooManyRequests, "Rate limit exceeded")
	default:
		WriteError(w, http.StatusUnauthorized, "Unauthorized")
	}
}
