package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Muqadas1234/compliance-policy-ai/internal/scenario"
)

var (
	checkScenario string
	checkFormat   string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkScenario, "scenario", "", "Glob pattern for scenario YAML files (required)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	checkCmd.MarkFlagRequired("scenario")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run decision assertions from scenario files",
	Long: "Loads scenario YAML files matching a glob pattern, evaluates each\n" +
		"case through the decision pipeline, and reports pass/fail.\n\n" +
		"Exit code 0 if all cases pass, 1 if any fail.\n" +
		"Use in CI to gate config changes on decision correctness.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat, "text")
	if err != nil {
		return err
	}

	files, err := scenario.Expand([]string{checkScenario})
	if err != nil {
		return err
	}

	engine, err := buildEngine(configPath, false, logger, nil)
	if err != nil {
		return err
	}

	var results []*scenario.RunResult
	for _, path := range files {
		r, err := scenario.LoadAndRun(cmd.Context(), path, engine)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	switch checkFormat {
	case "json":
		js, err := scenario.FormatJSON(results)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, js)
	default:
		fmt.Fprint(out, scenario.FormatText(results))
	}

	if scenario.Failed(results) {
		return errFailed
	}
	return nil
}
