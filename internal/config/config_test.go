package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	viper.Set(KeyDataDir, dir)
	t.Cleanup(func() { viper.Set(KeyDataDir, "") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "policies"), cfg.PolicyDir)
	assert.Equal(t, DefaultPolicyName, cfg.DefaultPolicy)
	assert.Equal(t, DefaultEmbedModel, cfg.EmbedModel)
	assert.Equal(t, DefaultEmbedDims, cfg.EmbedDims)
	assert.Equal(t, DefaultTopK, cfg.WatchlistTopK)
	assert.Equal(t, filepath.Join(dir, "watchlist.db"), cfg.WatchlistDBPath())
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	viper.Set(KeyDataDir, dir)
	viper.Set(KeyPolicyDir, "/etc/docugate/policies")
	viper.Set(KeyEmbedDims, 768)
	viper.Set(KeyWatchlistTopK, 10)
	t.Cleanup(func() {
		viper.Set(KeyDataDir, "")
		viper.Set(KeyPolicyDir, "")
		viper.Set(KeyEmbedDims, DefaultEmbedDims)
		viper.Set(KeyWatchlistTopK, DefaultTopK)
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/etc/docugate/policies", cfg.PolicyDir)
	assert.Equal(t, 768, cfg.EmbedDims)
	assert.Equal(t, 10, cfg.WatchlistTopK)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	viper.Set(KeyEmbedDims, -1)
	t.Cleanup(func() { viper.Set(KeyEmbedDims, DefaultEmbedDims) })

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed_dims")
}

func TestEnsureDataDir(t *testing.T) {
	cfg := &Config{DataDir: filepath.Join(t.TempDir(), "nested", "data")}
	require.NoError(t, cfg.EnsureDataDir())
	require.NoError(t, cfg.EnsureDataDir()) // idempotent
}
