package watchlist

import (
	"context"
	"sort"
	"strings"
)

// Text strategies. Exact ID strictly dominates exact name: when an ID query
// is supplied and hits, the exact-name strategy is not attempted, because a
// government ID equality is a stronger identity signal than a name equality.
// The fuzzy substring strategy always runs when a name is supplied.
func textCandidates(ctx context.Context, store *Store, name, idNumber string) (exact, loose []Candidate, err error) {
	if idNumber != "" {
		entities, err := store.FindByIDNumber(ctx, idNumber)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range entities {
			exact = append(exact, entityCandidate(e, ScoreIDExact, MatchIDExact))
		}
	}

	if name != "" && len(exact) == 0 {
		entities, err := store.FindByName(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range entities {
			exact = append(exact, entityCandidate(e, ScoreNameExact, MatchNameExact))
		}
	}

	if name != "" {
		entities, err := store.FindNameLike(ctx, name)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range entities {
			loose = append(loose, entityCandidate(e, ScoreNameLike, MatchNameLike))
		}
	}

	return exact, loose, nil
}

// vectorCandidates scores the query vector against every stored embedding and
// returns the top-K by descending cosine similarity. A nil query vector means
// the strategy is disabled and yields nothing.
func vectorCandidates(ctx context.Context, store *Store, queryVec []float64, topK int) ([]Candidate, error) {
	if queryVec == nil {
		return nil, nil
	}

	entities, err := store.AllWithEmbedding(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(entities))
	for _, e := range entities {
		candidates = append(candidates, entityCandidate(e, Cosine(queryVec, e.Embedding), MatchVector))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

func normalizeQuery(q Query) Query {
	q.Name = strings.TrimSpace(q.Name)
	q.IDNumber = strings.TrimSpace(q.IDNumber)
	q.Address = strings.TrimSpace(q.Address)
	q.Email = strings.TrimSpace(q.Email)
	q.RequesterRef = strings.TrimSpace(q.RequesterRef)
	return q
}
