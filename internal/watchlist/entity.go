// Package watchlist implements screening of identity records against a
// persistent list of known entities: exact, fuzzy, and vector-similarity
// retrieval merged into one deterministically ranked result.
package watchlist

// Match types tag how a candidate was retrieved. ID_EXACT and NAME_EXACT are
// the "hard exact" class; NAME_LIKE and VECTOR are similarity signals.
const (
	MatchIDExact   = "ID_EXACT"
	MatchNameExact = "NAME_EXACT"
	MatchNameLike  = "NAME_LIKE"
	MatchVector    = "VECTOR"
)

// Fixed base confidence per strategy. A government ID equality is the
// strongest identity signal, then exact name, then substring.
const (
	ScoreIDExact   = 1.0
	ScoreNameExact = 0.95
	ScoreNameLike  = 0.70
)

// Entity is one watchlist row. Immutable once stored; identity is EntityID.
// Embedding is nil for entities excluded from vector matching.
type Entity struct {
	EntityID  string    `json:"entity_id"`
	FullName  string    `json:"full_name"`
	IDNumber  string    `json:"id_number"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	Notes     string    `json:"notes"`
	Embedding []float64 `json:"-"`
}

// Candidate is one transient match produced by a retrieval strategy.
type Candidate struct {
	EntityID  string  `json:"entity_id"`
	FullName  string  `json:"full_name"`
	IDNumber  string  `json:"id_number"`
	Source    string  `json:"source"`
	Notes     string  `json:"notes"`
	Score     float64 `json:"score"`
	MatchType string  `json:"match_type"`
}

// Query holds the identity fields supplied by the caller. Empty fields are
// simply not used by the strategies that need them.
type Query struct {
	Name         string `json:"name"`
	IDNumber     string `json:"id_number"`
	Address      string `json:"address"`
	Email        string `json:"email"`
	RequesterRef string `json:"requester_ref"`
}

// EmbeddingMeta records whether and how the vector strategy participated.
type EmbeddingMeta struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Dims     int    `json:"dims"`
	Used     bool   `json:"used"`
}

// Signals are the diagnostic facts downstream risk grading consumes. Risk
// tier mapping itself lives downstream, as a pure function of these two
// values.
type Signals struct {
	TopScore     float64 `json:"top_score"`
	HasHardExact bool    `json:"has_hard_exact"`
}

// Explanation carries human-oriented diagnostics alongside the signals.
type Explanation struct {
	Reasoning string  `json:"reasoning"`
	Signals   Signals `json:"signals"`
}

// MatchResult is the full outcome of one watchlist search.
type MatchResult struct {
	Query       Query         `json:"query"`
	Embedding   EmbeddingMeta `json:"embedding"`
	TopScore    float64       `json:"top_score"`
	Matches     []Candidate   `json:"matches"`
	Explanation Explanation   `json:"explanation"`
}

func entityCandidate(e Entity, score float64, matchType string) Candidate {
	return Candidate{
		EntityID:  e.EntityID,
		FullName:  e.FullName,
		IDNumber:  e.IDNumber,
		Source:    e.Source,
		Notes:     e.Notes,
		Score:     score,
		MatchType: matchType,
	}
}
