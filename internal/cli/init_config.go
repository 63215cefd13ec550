package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
)

var (
	initOutput string
	initForce  bool
)

func init() {
	rootCmd.AddCommand(initConfigCmd)
	initConfigCmd.Flags().StringVarP(&initOutput, "output", "o", "compliance.yaml", "Where to write the config (- for stdout)")
	initConfigCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Generate default compliance.yaml with comments",
	Long:  "Writes the default taxonomy, rule bindings, weights and thresholds.\nEdit the file and pass it with --config.",
	RunE:  runInitConfig,
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	content := decision.DefaultConfigYAML()

	if initOutput == "-" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	if _, err := os.Stat(initOutput); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", initOutput)
	}
	if err := os.WriteFile(initOutput, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", initOutput, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", initOutput)
	return nil
}
