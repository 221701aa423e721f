// Package config holds OPERATOR-LEVEL configuration for a docugate
// installation.
//
// This is infrastructure config set by whoever deploys docugate, NOT the
// per-organization validation policies. The boundary is:
//
//   - Operator config (this package): data directory, policy directory,
//     embedding model settings, watchlist limits. Set via env vars
//     (DOCUGATE_*) or config file (docugate.config.yaml).
//
//   - Validation policies: one YAML document per source_id under the policy
//     directory, loaded and hot-reloaded by internal/policy.Source.
//
// The OpenAI API key is read from the conventional OPENAI_API_KEY env var;
// when it is absent the watchlist runs text-only and the embedding strategy
// is disabled.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Viper keys. Each maps to an env var with the DOCUGATE_ prefix
// (e.g. "policy_dir" → DOCUGATE_POLICY_DIR) and to a YAML field
// in docugate.config.yaml.
const (
	KeyDataDir       = "data_dir"
	KeyPolicyDir     = "policy_dir"
	KeyDefaultPolicy = "default_policy"
	KeyEmbedModel    = "embed_model"
	KeyEmbedDims     = "embed_dims"
	KeyEmbedTimeout  = "embed_timeout_seconds"
	KeyWatchlistTopK = "watchlist_topk"
)

// Defaults. The embedding model and dimensionality track the OpenAI
// text-embedding-3-small defaults used when seeding the watchlist.
const (
	DefaultPolicyName   = "default.yaml"
	DefaultEmbedModel   = "text-embedding-3-small"
	DefaultEmbedDims    = 1536
	DefaultEmbedTimeout = 10
	DefaultTopK         = 5
)

// Config holds resolved operator-level configuration for a docugate process.
type Config struct {
	DataDir       string        // Base directory for all state (~/.docugate)
	PolicyDir     string        // Directory holding per-source_id policy YAML
	DefaultPolicy string        // Fallback policy filename within PolicyDir
	EmbedModel    string        // Embedding model identifier
	EmbedDims     int           // Expected embedding dimensionality
	EmbedTimeout  time.Duration // Per-call timeout at the embedding boundary
	WatchlistTopK int           // Max vector candidates returned per search
}

// WatchlistDBPath returns the full path to the watchlist SQLite database.
func (c *Config) WatchlistDBPath() string {
	return filepath.Join(c.DataDir, "watchlist.db")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o700)
}

// OpenAIAPIKey returns the embedding provider API key, or "" when unset.
func (c *Config) OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func init() {
	viper.SetEnvPrefix("DOCUGATE")
	viper.AutomaticEnv()
	viper.SetDefault(KeyDefaultPolicy, DefaultPolicyName)
	viper.SetDefault(KeyEmbedModel, DefaultEmbedModel)
	viper.SetDefault(KeyEmbedDims, DefaultEmbedDims)
	viper.SetDefault(KeyEmbedTimeout, DefaultEmbedTimeout)
	viper.SetDefault(KeyWatchlistTopK, DefaultTopK)
}

// Load reads configuration from Viper (which merges env vars, config
// file, and defaults) and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:       resolveDataDir(),
		PolicyDir:     viper.GetString(KeyPolicyDir),
		DefaultPolicy: viper.GetString(KeyDefaultPolicy),
		EmbedModel:    viper.GetString(KeyEmbedModel),
		EmbedDims:     viper.GetInt(KeyEmbedDims),
		EmbedTimeout:  time.Duration(viper.GetInt(KeyEmbedTimeout)) * time.Second,
		WatchlistTopK: viper.GetInt(KeyWatchlistTopK),
	}

	if cfg.PolicyDir == "" {
		cfg.PolicyDir = filepath.Join(cfg.DataDir, "policies")
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func resolveDataDir() string {
	if dir := viper.GetString(KeyDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docugate"
	}
	return filepath.Join(home, ".docugate")
}

func (c *Config) validate() error {
	if c.EmbedDims <= 0 {
		return fmt.Errorf("embed_dims must be positive")
	}
	if c.WatchlistTopK <= 0 {
		return fmt.Errorf("watchlist_topk must be positive")
	}
	if c.EmbedTimeout <= 0 {
		return fmt.Errorf("embed_timeout_seconds must be positive")
	}
	if c.DefaultPolicy == "" {
		return fmt.Errorf("default_policy must not be empty")
	}
	return nil
}
