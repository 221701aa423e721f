package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/docugate-io/docugate/internal/config"
)

var (
	evaluateSourceID string
	evaluateInput    string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate an identity payload against the policy for a source_id",
	Long: `Evaluate reads a JSON identity payload (from --input or stdin) and
validates it against the policy document for --source-id, printing the
violations and decision hint as JSON on stdout.`,
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateSourceID, "source-id", "", "policy source identifier (org or doc type)")
	evaluateCmd.Flags().StringVar(&evaluateInput, "input", "", "path to payload JSON file (default: stdin)")
	_ = evaluateCmd.MarkFlagRequired("source-id")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "cmd.evaluate")
	defer span.End()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var payload []byte
	if evaluateInput != "" {
		payload, err = os.ReadFile(evaluateInput)
		if err != nil {
			return fmt.Errorf("reading payload file: %w", err)
		}
	} else {
		payload, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading payload from stdin: %w", err)
		}
	}

	engine := newRulesEngine(cfg)
	result, err := engine.Evaluate(ctx, evaluateSourceID, payload)
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
