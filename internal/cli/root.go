package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to pipeline config YAML (defaults when omitted)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text|json); serve and mcp default to json")
}

var rootCmd = &cobra.Command{
	Use:   "compliance",
	Short: "Deterministic compliance decisions for documents",
	Long: "Evaluates a document against candidate compliance policies and returns\n" +
		"Approve, Flag or Escalate with a bounded risk score and a hash-chained audit trail.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errFailed signals a completed command whose outcome is a failure
// (failing scenarios, a tampered bundle). Its message was already printed.
var errFailed = errors.New("failed")

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
