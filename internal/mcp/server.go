// Package mcp exposes the decision pipeline as MCP tools over stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
)

// Server wraps the MCP SDK server around a decision engine.
type Server struct {
	mcpServer *mcpsdk.Server
	engine    *decision.Engine
	logger    *slog.Logger
}

// New creates an MCP server with all compliance tools registered.
func New(engine *decision.Engine, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{
		engine: engine,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "compliance",
			Version: version,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all compliance tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "compliance_evaluate",
		Description: "Evaluate a document against candidate policies. Returns the decision (Approve, Flag or Escalate), risk score, findings and a hash-chained audit trail.",
	}, s.handleEvaluate)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "compliance_taxonomy",
		Description: "List the keywords and rule family for a policy id, or for every known policy when no id is given.",
	}, s.handleTaxonomy)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "compliance_verify",
		Description: "Verify the audit trail of a decision bundle previously returned by compliance_evaluate.",
	}, s.handleVerify)
}
