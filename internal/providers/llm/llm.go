package llm

import "context"

// Provider is the generative-text capability. Any failure is recoverable:
// callers fall back to the rule-based responder.
type Provider interface {
	// Complete returns the full answer text for one prompt.
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}
