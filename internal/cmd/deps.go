package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/docugate-io/docugate/internal/config"
	"github.com/docugate-io/docugate/internal/embedding"
	"github.com/docugate-io/docugate/internal/policy"
	"github.com/docugate-io/docugate/internal/watchlist"
)

// newRulesEngine builds the validation engine over the configured policy
// directory.
func newRulesEngine(cfg *config.Config) *policy.Engine {
	return policy.NewEngine(policy.NewSource(cfg.PolicyDir, cfg.DefaultPolicy))
}

// newEmbedder returns the configured embedding provider, or nil when no API
// key is set. A nil provider disables the vector strategy; text matching is
// unaffected.
func newEmbedder(cfg *config.Config) embedding.Provider {
	apiKey := cfg.OpenAIAPIKey()
	if apiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, watchlist runs text-only (vector strategy disabled)")
		return nil
	}
	return embedding.NewOpenAIProvider(apiKey, cfg.EmbedModel, cfg.EmbedDims, cfg.EmbedTimeout)
}

// newWatchlistEngine opens the watchlist store and wires the screening
// engine. The caller owns closing the returned store.
func newWatchlistEngine(cfg *config.Config) (*watchlist.Engine, *watchlist.Store, error) {
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}
	store, err := watchlist.NewStore(cfg.WatchlistDBPath())
	if err != nil {
		return nil, nil, err
	}
	return watchlist.NewEngine(store, newEmbedder(cfg), cfg.WatchlistTopK), store, nil
}
