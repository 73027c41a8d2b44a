// Package models defines the wire types for the Papergate API.
package models

import "strconv"

// TokenRequest is the body of POST /auth/token.
type TokenRequest struct {
	MasterKey string `json:"master_key"`
	ClientID  string `json:"client_id,omitempty"`
}

// TokenResponse is the body returned by POST /auth/token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// SignedRequest carries the anti-replay fields every protected call includes.
type SignedRequest struct {
	Timestamp int64  `json:"timestamp"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	SignedRequest
	Text       string `json:"text"`
	PageNumber *int   `json:"page_number,omitempty"`
}

// BodyDigest returns the canonical digest of the request's semantic payload:
// the first 100 characters of the text plus the page number (empty when
// absent or zero). Existing clients compute the identical string, so the
// truncation and concatenation rules are wire format.
func (r *TranslateRequest) BodyDigest() string {
	page := ""
	if r.PageNumber != nil && *r.PageNumber != 0 {
		page = strconv.Itoa(*r.PageNumber)
	}
	return firstRunes(r.Text, 100) + page
}

// TranslateResponse is the body returned by POST /translate.
type TranslateResponse struct {
	Translation string `json:"translation"`
}

// QuestionRequest is the body of POST /question.
type QuestionRequest struct {
	SignedRequest
	Content  string `json:"content"`
	Question string `json:"question"`
}

// BodyDigest returns the first 100 characters of the document content plus
// the full question text.
func (r *QuestionRequest) BodyDigest() string {
	return firstRunes(r.Content, 100) + r.Question
}

// QuestionResponse is the body returned by POST /question.
type QuestionResponse struct {
	Answer string `json:"answer"`
}

// ExtractRequest is the body of POST /extract. Data is the base64-encoded
// PDF document.
type ExtractRequest struct {
	SignedRequest
	Data string `json:"data"`
}

// BodyDigest returns the first 100 characters of the base64 data field,
// following the same convention as the other protected operations.
func (r *ExtractRequest) BodyDigest() string {
	return firstRunes(r.Data, 100)
}

// ExtractResponse is the body returned by POST /extract.
type ExtractResponse struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// firstRunes truncates s to at most n characters, counting code points so
// multi-byte text digests match what clients compute.
func firstRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
