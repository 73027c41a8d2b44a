// Package relay builds prompts for the upstream language model and maps
// upstream failures into the gateway's error taxonomy. It is only reached
// after a request has been fully admitted by the auth core.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/bobmcallan/papergate/internal/common"
	"github.com/bobmcallan/papergate/internal/interfaces"
)

// Upstream failure categories. Admission state (nonce, rate slot) is already
// consumed by the time these can occur and stays consumed.
var (
	ErrNotConfigured   = errors.New("completion backend not configured")
	ErrUpstreamTimeout = errors.New("upstream timeout")
	ErrUpstream        = errors.New("upstream error")
)

const (
	translateTemperature = 0.3
	questionTemperature  = 0.5
)

// Service delegates admitted requests to the completion client.
type Service struct {
	client         interfaces.CompletionClient
	logger         *common.Logger
	targetLanguage string
}

// NewService creates a relay service. client may be nil when no backend is
// configured; operations then fail with ErrNotConfigured.
func NewService(client interfaces.CompletionClient, cfg *common.RelayConfig, logger *common.Logger) *Service {
	return &Service{
		client:         client,
		logger:         logger,
		targetLanguage: cfg.TargetLanguage,
	}
}

// Translate renders a document page (or the whole text when pageNumber is
// nil) into the configured target language.
func (s *Service) Translate(ctx context.Context, text string, pageNumber *int) (string, error) {
	return s.complete(ctx, buildTranslatePrompt(text, pageNumber, s.targetLanguage), translateTemperature)
}

// Answer answers a question from the supplied document content.
func (s *Service) Answer(ctx context.Context, content, question string) (string, error) {
	return s.complete(ctx, buildQuestionPrompt(content, question, s.targetLanguage), questionTemperature)
}

func (s *Service) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	if s.client == nil {
		return "", ErrNotConfigured
	}

	result, err := s.client.Complete(ctx, prompt, temperature)
	if err != nil {
		return "", classifyUpstreamError(err)
	}
	return result, nil
}

// classifyUpstreamError folds transport-level failures into the two
// caller-facing categories.
func classifyUpstreamError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

// buildTranslatePrompt asks the model to translate document text, preserving
// the original structure and returning only the translation.
func buildTranslatePrompt(text string, pageNumber *int, language string) string {
	var sb strings.Builder
	if pageNumber != nil {
		fmt.Fprintf(&sb, "Translate page %d of the following document into %s. ", *pageNumber, language)
	} else {
		fmt.Fprintf(&sb, "Translate the following document into %s. ", language)
	}
	sb.WriteString("Preserve the original formatting and structure. Return only the translation, with no explanations.\n\n")
	sb.WriteString("Original text:\n")
	sb.WriteString(text)
	return sb.String()
}

// buildQuestionPrompt asks the model to answer from the supplied content
// only, flagging anything the document does not cover.
func buildQuestionPrompt(content, question, language string) string {
	return fmt.Sprintf(`Answer the user's question based on the following document content. Answer in %s.

Document content:
%s

Question:
%s

Give an accurate, detailed answer. If the question is not covered by the document, say so explicitly.`, language, content, question)
}
