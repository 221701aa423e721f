package watchlist

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/docugate-io/docugate/internal/embedding"
	docotel "github.com/docugate-io/docugate/internal/otel"
)

// Engine runs the full screening pipeline: seed-on-first-use, the three
// retrieval strategies, and the merge. It holds no per-call state; every
// Search is an independent, retryable unit of work.
type Engine struct {
	store    *Store
	embedder embedding.Provider
	topK     int

	mu    sync.Mutex
	ready bool
}

// NewEngine creates a watchlist engine. embedder may be nil to run text-only.
func NewEngine(store *Store, embedder embedding.Provider, topK int) *Engine {
	return &Engine{store: store, embedder: embedder, topK: topK}
}

// Search screens the supplied identity fields against the watchlist.
//
// The vector strategy degrades gracefully: when no embedder is configured,
// the query is empty, or the embedding call fails, the search continues with
// the text strategies and the result reports Embedding.Used=false. Search
// only errors on store failures.
func (e *Engine) Search(ctx context.Context, q Query) (*MatchResult, error) {
	ctx, span := tracer.Start(ctx, "watchlist.search")
	defer span.End()

	searchesTotal.Add(ctx, 1)

	q = normalizeQuery(q)
	span.SetAttributes(
		attribute.Bool("watchlist.query_has_name", q.Name != ""),
		attribute.Bool("watchlist.query_has_id", q.IDNumber != ""),
	)

	if err := e.ensureReady(ctx); err != nil {
		return nil, err
	}

	meta := EmbeddingMeta{Provider: "disabled"}
	var queryVec []float64
	if e.embedder != nil {
		meta.Provider = e.embedder.Name()
		meta.Model = e.embedder.Model()
		meta.Dims = e.embedder.Dims()
		if text := QueryText(q); text != "" {
			vec, err := e.embedder.Embed(ctx, text)
			if err != nil {
				log.Warn().Err(err).
					Str("requester_ref", q.RequesterRef).
					Msg("embedding failed, continuing with text-only search")
			} else {
				queryVec = vec
				meta.Used = true
			}
		}
	}

	exact, loose, err := textCandidates(ctx, e.store, q.Name, q.IDNumber)
	if err != nil {
		return nil, err
	}
	vector, err := vectorCandidates(ctx, e.store, queryVec, e.topK)
	if err != nil {
		return nil, err
	}

	matches, topScore, hasHardExact := Merge(exact, loose, vector)
	if hasHardExact {
		hardExactHits.Add(ctx, 1)
	}

	span.SetAttributes(
		attribute.Int("watchlist.matches", len(matches)),
		attribute.Float64("watchlist.top_score", topScore),
		attribute.Bool("watchlist.has_hard_exact", hasHardExact),
		attribute.Bool("watchlist.embedding_used", meta.Used),
	)
	log.Debug().
		Str("requester_ref", q.RequesterRef).
		Int("matches", len(matches)).
		Float64("top_score", topScore).
		Func(docotel.LogTraceFields(ctx)).
		Msg("watchlist searched")

	return &MatchResult{
		Query:     q,
		Embedding: meta,
		TopScore:  roundScore(topScore),
		Matches:   roundScores(matches),
		Explanation: Explanation{
			Reasoning: "Exact and substring checks plus cosine similarity over stored embeddings. Risk tiering is computed downstream.",
			Signals: Signals{
				TopScore:     roundScore(topScore),
				HasHardExact: hasHardExact,
			},
		},
	}, nil
}

// ensureReady seeds at most once per engine. Separate engines racing on the
// same database both hit the store-level count check, which tolerates
// duplicate seeding.
func (e *Engine) ensureReady(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return nil
	}
	if err := e.store.EnsureReady(ctx, e.embedder); err != nil {
		return err
	}
	e.ready = true
	return nil
}

// roundScore trims similarity scores to 4 decimal places for stable output.
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}

func roundScores(matches []Candidate) []Candidate {
	for i := range matches {
		matches[i].Score = roundScore(matches[i].Score)
	}
	return matches
}
