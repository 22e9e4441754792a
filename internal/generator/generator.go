// Package generator wraps the external image-generation provider.
package generator

import (
	"context"
	"errors"
)

// ErrProviderError marks any failure originating at the external
// generation provider (API error, timeout, malformed response).
// Callers treat it as a terminal failure for the request; nothing is
// retried here.
var ErrProviderError = errors.New("image provider error")

// Request describes one image generation call.
type Request struct {
	Prompt string
	Model  string // provider-form model id, not normalized
	Style  string
	Size   string
}

// Result is the outcome of a successful generation call.
// URL is always non-empty; an ambiguous or empty provider response is
// rejected as an error rather than passed through.
type Result struct {
	URL string
}

// Generator produces an image for a prompt via an external provider.
// The call is synchronous and may take tens of seconds; implementations
// must honor context cancellation.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}
