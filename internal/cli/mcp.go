package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	compliancemcp "github.com/Muqadas1234/compliance-policy-ai/internal/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP tool server for agent integration",
	Long: "Runs the decision pipeline as an MCP (Model Context Protocol) server over stdio.\n" +
		"Exposes tools: compliance_evaluate, compliance_taxonomy, compliance_verify.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat, "json")
	if err != nil {
		return err
	}

	engine, err := buildEngine(configPath, false, logger, nil)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("compliance MCP server running on stdio")
	return compliancemcp.New(engine, version, logger).Run(ctx)
}
