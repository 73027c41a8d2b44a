package server

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/bobmcallan/papergate/internal/models"
	"github.com/bobmcallan/papergate/internal/services/relay"
)

// maxExtractBody bounds the JSON body of /extract; base64 inflates the PDF
// by a third, so this allows documents of roughly 24MB.
const maxExtractBody = 32 << 20

// handleTranslate handles POST /translate — translate document text via the
// upstream model.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.TranslateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	token, ok := s.admitSigned(w, r, req.SignedRequest, req.BodyDigest())
	if !ok {
		return
	}

	translation, err := s.app.Relay.Translate(r.Context(), req.Text, req.PageNumber)
	if err != nil {
		s.writeUpstreamError(w, token, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.TranslateResponse{Translation: translation})
}

// handleQuestion handles POST /question — answer a question from supplied
// document content.
func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.QuestionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	token, ok := s.admitSigned(w, r, req.SignedRequest, req.BodyDigest())
	if !ok {
		return
	}

	answer, err := s.app.Relay.Answer(r.Context(), req.Content, req.Question)
	if err != nil {
		s.writeUpstreamError(w, token, err)
		return
	}

	WriteJSON(w, http.StatusOK, models.QuestionResponse{Answer: answer})
}

// handleExtract handles POST /extract — server-side PDF text extraction.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.ExtractRequest
	if !DecodeJSONLimit(w, r, &req, maxExtractBody) {
		return
	}

	if _, ok := s.admitSigned(w, r, req.SignedRequest, req.BodyDigest()); !ok {
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid base64 data")
		return
	}

	text, pages, err := relay.ExtractText(data, s.app.Config.Relay.MaxExtractChars)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid PDF document")
		return
	}

	WriteJSON(w, http.StatusOK, models.ExtractResponse{Text: text, Pages: pages})
}

// writeUpstreamError maps a relay failure to its status code. The request's
// nonce and rate slot are already consumed and stay that way.
func (s *Server) writeUpstreamError(w http.ResponseWriter, token string, err error) {
	s.logger.Error().Err(err).Str("token_prefix", tokenPrefix(token)).Msg("Upstream call failed")

	switch {
	case errors.Is(err, relay.ErrNotConfigured):
		WriteError(w, http.StatusInternalServerError, "Completion backend not configured")
	case errors.Is(err, relay.ErrUpstreamTimeout):
		WriteError(w, http.StatusGatewayTimeout, "Upstream timeout")
	default:
		WriteError(w, http.StatusBadGateway, "Upstream error")
	}
}

// tokenPrefix returns a short loggable prefix of a bearer token.
func tokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
