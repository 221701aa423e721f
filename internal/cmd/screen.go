package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docugate-io/docugate/internal/config"
	"github.com/docugate-io/docugate/internal/watchlist"
)

var screenQuery watchlist.Query

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen identity fields against the watchlist",
	Long: `Screen runs the watchlist search (exact ID, exact name, fuzzy name,
and embedding similarity) for the supplied fields and prints the ranked
matches as JSON on stdout.`,
	RunE: runScreen,
}

func init() {
	screenCmd.Flags().StringVar(&screenQuery.Name, "name", "", "full name to check")
	screenCmd.Flags().StringVar(&screenQuery.IDNumber, "id-number", "", "government ID / registration number to check")
	screenCmd.Flags().StringVar(&screenQuery.Address, "address", "", "address text (extra signal for vector search)")
	screenCmd.Flags().StringVar(&screenQuery.Email, "email", "", "email text (extra signal for vector search)")
	screenCmd.Flags().StringVar(&screenQuery.RequesterRef, "requester-ref", "", "caller identifier for tracing")
	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "cmd.screen")
	defer span.End()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	engine, store, err := newWatchlistEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := engine.Search(ctx, screenQuery)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
