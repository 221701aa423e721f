// Package embedding is the boundary for the one external call the watchlist
// engine makes. Providers must be safe for concurrent use; callers treat any
// failure as "skip the vector strategy", never as a fatal error.
package embedding

import (
	"context"
	"errors"
	"time"
)

// TimeoutEmbedCall caps a single embedding request so a slow provider can
// never block a screening call indefinitely.
const TimeoutEmbedCall = 10 * time.Second

// Domain errors for the embedding package.
var (
	ErrEmptyInput          = errors.New("embedding input is empty")
	ErrProviderUnavailable = errors.New("embedding provider unavailable")
)

// Provider is the interface all embedding providers implement.
type Provider interface {
	// Name returns the provider identifier (e.g. "openai").
	Name() string
	// Model returns the model identifier used for vectors.
	Model() string
	// Dims returns the expected vector dimensionality.
	Dims() int
	// Embed returns a vector for the given text.
	Embed(ctx context.Context, text string) ([]float64, error)
}
