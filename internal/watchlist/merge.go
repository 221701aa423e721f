package watchlist

import "sort"

// Merge deduplicates candidates from the three strategies by entity_id,
// keeping only the strictly higher score per entity (score ties keep the
// first occurrence in exact → loose → vector order), then ranks the result
// by descending score with ascending full_name as the deterministic
// tie-break.
//
// hasHardExact is true iff any retained match came from an exact strategy.
// topScore is the score of the first ranked match, or 0.0 with no matches.
func Merge(exact, loose, vector []Candidate) (ranked []Candidate, topScore float64, hasHardExact bool) {
	best := make(map[string]Candidate)
	order := make([]string, 0, len(exact)+len(loose)+len(vector))

	for _, batch := range [][]Candidate{exact, loose, vector} {
		for _, c := range batch {
			cur, seen := best[c.EntityID]
			if !seen {
				best[c.EntityID] = c
				order = append(order, c.EntityID)
				continue
			}
			if c.Score > cur.Score {
				best[c.EntityID] = c
			}
		}
	}

	ranked = make([]Candidate, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, best[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].FullName < ranked[j].FullName
	})

	for _, c := range ranked {
		if c.MatchType == MatchIDExact || c.MatchType == MatchNameExact {
			hasHardExact = true
			break
		}
	}
	if len(ranked) > 0 {
		topScore = ranked[0].Score
	}
	return ranked, topScore, hasHardExact
}
