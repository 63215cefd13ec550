package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
	"github.com/Muqadas1234/compliance-policy-ai/internal/metrics"
	"github.com/Muqadas1234/compliance-policy-ai/internal/summarize"
)

// buildEngine loads the config at path, applies summarizer environment
// settings and wires the optional summarizer client.
func buildEngine(path string, forceLLM bool, logger *slog.Logger, m *metrics.Collector) (*decision.Engine, error) {
	cfg, hash, err := decision.LoadConfigWithHash(path)
	if err != nil {
		return nil, err
	}
	cfg.Summarizer.ApplyEnv(os.Getenv)
	if forceLLM {
		cfg.Summarizer.Enabled = true
	}

	opts := []decision.Option{decision.WithLogger(logger), decision.WithMetrics(m)}
	if cfg.Summarizer.Enabled {
		client, err := summarize.NewClient(cfg.Summarizer)
		if err != nil {
			return nil, fmt.Errorf("summarizer: %w", err)
		}
		logger.Info("summarizer enabled", "model", cfg.Summarizer.Model, "redact_mode", client.Mode())
		opts = append(opts, decision.WithSummarizer(client))
	}

	engine, err := decision.NewEngine(cfg, hash, opts...)
	if err != nil {
		return nil, err
	}
	return engine, nil
}
