// Package interfaces defines the contracts between Papergate packages.
package interfaces

import "context"

// CompletionClient is the boundary to the upstream language model. The
// gateway only reaches it after a request has been fully admitted; no lock
// is ever held across this call.
type CompletionClient interface {
	// Complete sends a single-turn prompt and returns the model's text.
	Complete(ctx context.Context, prompt string, temperature float32) (string, error)
}
