package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
	"github.com/Muqadas1234/compliance-policy-ai/internal/policydiff"
)

var diffFormat string

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().StringVarP(&diffFormat, "format", "f", "text", "Output format (text|json)")
}

var diffCmd = &cobra.Command{
	Use:   "diff <old.yaml> <new.yaml>",
	Short: "Compare two config files and show changes",
	Long: "Loads two pipeline config files and shows what changed in human-readable terms:\n" +
		"workflow thresholds, risk weights, rule limits, rule bindings, taxonomy keywords.",
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldCfg, err := decision.LoadConfig(args[0])
	if err != nil {
		return fmt.Errorf("load old config: %w", err)
	}

	newCfg, err := decision.LoadConfig(args[1])
	if err != nil {
		return fmt.Errorf("load new config: %w", err)
	}

	result := policydiff.Diff(oldCfg, newCfg)
	result.OldPath = args[0]
	result.NewPath = args[1]

	switch diffFormat {
	case "json":
		out, err := policydiff.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
	default:
		fmt.Fprint(cmd.OutOrStdout(), policydiff.FormatText(result))
	}

	return nil
}
