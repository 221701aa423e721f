package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docugate-io/docugate/internal/config"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Initialize the watchlist store and seed the demo entity set",
	Long: `Seed creates the watchlist database if needed and loads the embedded
demo entities (with embeddings when OPENAI_API_KEY is set). Safe to run
repeatedly; an already-populated store is left alone.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "cmd.seed")
	defer span.End()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	_, store, err := newWatchlistEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureReady(ctx, newEmbedder(cfg)); err != nil {
		return err
	}

	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("watchlist ready: %d entities in %s\n", count, cfg.WatchlistDBPath())
	return nil
}
