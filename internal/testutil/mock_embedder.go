// Package testutil provides shared test helpers and mocks for docugate tests.
package testutil

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/docugate-io/docugate/internal/embedding"
)

var _ embedding.Provider = (*MockEmbedder)(nil)

// MockEmbedder implements embedding.Provider for tests without live API
// calls. Vectors are deterministic: the same text always embeds to the same
// vector, and different texts almost always differ. Set Err to simulate
// provider failures.
type MockEmbedder struct {
	mu        sync.Mutex
	ModelName string // defaults to "mock-embed" when empty
	Dimension int    // defaults to 8 when zero
	Err       error  // if set, Embed returns this error
	CallCount int    // incremented on each Embed call
	Texts     []string
}

// Name returns the provider identifier (implements embedding.Provider).
func (m *MockEmbedder) Name() string { return "mock" }

// Model returns the configured model name.
func (m *MockEmbedder) Model() string {
	if m.ModelName == "" {
		return "mock-embed"
	}
	return m.ModelName
}

// Dims returns the vector dimensionality.
func (m *MockEmbedder) Dims() int {
	if m.Dimension == 0 {
		return 8
	}
	return m.Dimension
}

// Embed returns a deterministic vector derived from the text, or the
// configured error.
func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	m.mu.Lock()
	m.CallCount++
	m.Texts = append(m.Texts, text)
	err := m.Err
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return DeterministicVector(text, m.Dims()), nil
}

// DeterministicVector hashes text into a fixed-length non-zero vector. Equal
// texts produce equal vectors, so cosine similarity of a text with itself is
// exactly 1.0 in tests.
func DeterministicVector(text string, dims int) []float64 {
	vec := make([]float64, dims)
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		// Map to [0.1, 1.1) so no vector has zero norm.
		vec[i] = 0.1 + float64(seed%1000)/1000.0
	}
	return vec
}
