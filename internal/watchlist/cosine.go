package watchlist

import "math"

// Cosine returns the cosine similarity of a and b. Returns 0.0 for empty,
// zero-norm, or dimension-mismatched vectors; it never errors, so a corrupt
// stored embedding degrades to "no signal" instead of failing a search.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	den := math.Sqrt(normA) * math.Sqrt(normB)
	if den == 0 {
		return 0.0
	}
	return dot / den
}
