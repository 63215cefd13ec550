package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Muqadas1234/compliance-policy-ai/internal/metrics"
	"github.com/Muqadas1234/compliance-policy-ai/internal/server"
)

var serveListen string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8080", "HTTP listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP decision server",
	Long: "Serves POST /v1/evaluate, GET /healthz and GET /metrics.\n" +
		"The --config file is watched and hot-reloaded on change.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd.ErrOrStderr(), logLevel, logFormat, "json")
	if err != nil {
		return err
	}

	m := metrics.NewCollector(nil)
	engine, err := buildEngine(configPath, false, logger, m)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	srv := server.New(server.Config{Listen: serveListen, ConfigPath: configPath}, engine, m, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if configPath != "" {
		reloader, err := server.NewReloader(srv)
		if err != nil {
			logger.Warn("hot-reload disabled", "error", err)
		} else {
			go reloader.Run(ctx)
		}
	}

	_, hash := engine.Config()
	logger.Info("starting compliance server", "listen", serveListen, "config", configPath, "config_hash", hash)
	return srv.Serve(ctx)
}
