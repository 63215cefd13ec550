// Package decision runs the compliance pipeline: policy matching, findings
// aggregation, risk scoring and workflow classification, in that order, with
// one audit step recorded after each stage.
package decision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ppiankov/neurorouter"

	"github.com/Muqadas1234/compliance-policy-ai/internal/audit"
	"github.com/Muqadas1234/compliance-policy-ai/internal/metrics"
	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
	"github.com/Muqadas1234/compliance-policy-ai/internal/policy"
	"github.com/Muqadas1234/compliance-policy-ai/internal/risk"
	"github.com/Muqadas1234/compliance-policy-ai/internal/summarize"
	"github.com/Muqadas1234/compliance-policy-ai/internal/workflow"
)

// ErrPipeline wraps every error returned by Run. A failed run never
// returns a partial bundle.
var ErrPipeline = errors.New("decision pipeline failed")

// Bundle is the result of one run. It shares no memory with the engine or
// with other bundles and carries no timestamps, so identical inputs yield
// identical JSON.
type Bundle struct {
	Decision       model.Decision        `json:"decision"`
	Score          int                   `json:"score"`
	Explanation    string                `json:"explanation"`
	AuditTrail     []audit.Step          `json:"audit_trail"`
	PolicyFindings []model.PolicyFinding `json:"policy_findings"`

	// ConfigHash names the config snapshot the run used. Not serialized.
	ConfigHash string `json:"-"`
}

// snapshot is an immutable config plus the hash it was loaded with.
type snapshot struct {
	cfg  *Config
	hash string
}

// Engine runs the pipeline. It is safe for concurrent use; each run reads
// one config snapshot, and SetConfig swaps snapshots atomically.
type Engine struct {
	current    atomic.Pointer[snapshot]
	summarizer summarize.Summarizer
	logger     *slog.Logger
	metrics    *metrics.Collector
}

// Option configures an Engine.
type Option func(*Engine)

// WithSummarizer injects the optional summarizer. Without one, the
// deterministic summary is always used.
func WithSummarizer(s summarize.Summarizer) Option {
	return func(e *Engine) { e.summarizer = s }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics records run metrics into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// NewEngine validates cfg and returns an engine. A nil cfg means defaults.
func NewEngine(cfg *Config, hash string, opts ...Option) (*Engine, error) {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := e.SetConfig(cfg, hash); err != nil {
		return nil, err
	}
	return e, nil
}

// SetConfig validates cfg and makes it the snapshot for subsequent runs.
// Runs already in progress keep the snapshot they started with. The caller
// must not mutate cfg afterwards.
func (e *Engine) SetConfig(cfg *Config, hash string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	e.current.Store(&snapshot{cfg: cfg, hash: hash})
	return nil
}

// Config returns the current config snapshot and its hash. Treat it as read-only.
func (e *Engine) Config() (*Config, string) {
	s := e.current.Load()
	return s.cfg, s.hash
}

// RunMaps is Run for loosely typed candidates, such as decoded JSON.
// Every element must be an object; missing fields take defaults.
func (e *Engine) RunMaps(ctx context.Context, text string, raw []any) (*Bundle, error) {
	candidates, err := model.CandidatesFromAny(raw)
	if err != nil {
		e.metrics.RecordFailure()
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	return e.Run(ctx, text, candidates)
}

// Run evaluates text against candidates. The four stages always run, in
// order, even when no candidate is relevant.
func (e *Engine) Run(ctx context.Context, text string, candidates []model.PolicyCandidate) (*Bundle, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		e.metrics.RecordFailure()
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	snap := e.current.Load()
	cfg := snap.cfg

	bundle, err := e.run(ctx, cfg, text, candidates)
	if err != nil {
		e.metrics.RecordFailure()
		e.logger.Error("pipeline run failed", "error", err, "config_hash", snap.hash)
		return nil, fmt.Errorf("%w: %w", ErrPipeline, err)
	}
	bundle.ConfigHash = snap.hash

	e.metrics.RecordRun(string(bundle.Decision), bundle.Score, violatedIDs(bundle.PolicyFindings), time.Since(start))
	e.logger.Debug("pipeline run complete",
		"decision", bundle.Decision,
		"score", bundle.Score,
		"findings", len(bundle.PolicyFindings),
		"config_hash", snap.hash,
		"duration", time.Since(start),
	)
	return bundle, nil
}

func (e *Engine) run(ctx context.Context, cfg *Config, text string, candidates []model.PolicyCandidate) (*Bundle, error) {
	trail := audit.NewTrail()

	findings := policy.Match(text, candidates, &cfg.Policy)
	analysis := policy.Aggregate(findings)
	if summary := e.summarize(ctx, cfg.Summarizer.Timeout, text, candidates); summary != "" {
		analysis.Summary = summary
		analysis.UsedLLM = true
	}
	out := make([]model.PolicyFinding, len(analysis.Findings))
	for i, f := range analysis.Findings {
		out[i] = f.Clone()
	}
	digest, err := audit.DigestFindings(out)
	if err != nil {
		return nil, fmt.Errorf("policy stage: %w", err)
	}
	if err := trail.AppendPolicy(audit.PolicyRecord{
		UsedLLM:        analysis.UsedLLM,
		Summary:        analysis.Summary,
		FindingsDigest: digest,
	}); err != nil {
		return nil, fmt.Errorf("policy stage: %w", err)
	}

	scored := risk.Score(text, analysis, &cfg.Risk)
	if err := trail.AppendRisk(audit.RiskRecord{Score: scored.Score, Explanation: scored.Explanation}); err != nil {
		return nil, fmt.Errorf("risk stage: %w", err)
	}

	outcome := workflow.Classify(scored.Score, analysis, cfg.Workflow)
	if err := trail.AppendWorkflow(audit.WorkflowRecord{Decision: outcome.Decision, Rationale: outcome.Rationale}); err != nil {
		return nil, fmt.Errorf("workflow stage: %w", err)
	}

	return &Bundle{
		Decision:       outcome.Decision,
		Score:          scored.Score,
		Explanation:    scored.Explanation,
		AuditTrail:     trail.Steps(),
		PolicyFindings: out,
	}, nil
}

// summarize calls the summarizer in its own goroutine bounded by timeout.
// Any failure, panic, timeout or blank answer yields "".
func (e *Engine) summarize(ctx context.Context, timeout time.Duration, text string, candidates []model.PolicyCandidate) string {
	if e.summarizer == nil {
		e.metrics.RecordSummarizer(metrics.SummaryDisabled)
		return ""
	}
	if timeout <= 0 {
		timeout = summarize.DefaultConfig().Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	input := make([]model.PolicyCandidate, len(candidates))
	for i, c := range candidates {
		input[i] = c.Normalized()
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("summarizer panic: %v", r)}
			}
		}()
		s, err := e.summarizer.Summarize(ctx, text, input)
		done <- result{text: s, err: err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
	}
	switch err := ctx.Err(); {
	case errors.Is(err, context.Canceled):
		e.metrics.RecordSummarizer(metrics.SummaryCanceled)
		e.logger.Warn("summarizer canceled, using deterministic summary")
		return ""
	case err != nil:
		e.metrics.RecordSummarizer(metrics.SummaryTimeout)
		e.logger.Warn("summarizer timed out, using deterministic summary", "timeout", timeout)
		return ""
	}

	switch {
	case errors.Is(r.err, neurorouter.ErrRateLimited):
		e.metrics.RecordSummarizer(metrics.SummaryRateLimited)
		e.logger.Warn("summarizer rate limited, using deterministic summary")
	case r.err != nil:
		e.metrics.RecordSummarizer(metrics.SummaryError)
		e.logger.Warn("summarizer failed, using deterministic summary", "error", r.err)
	case strings.TrimSpace(r.text) == "":
		e.metrics.RecordSummarizer(metrics.SummaryEmpty)
	default:
		e.metrics.RecordSummarizer(metrics.SummaryUsed)
		return strings.TrimSpace(r.text)
	}
	return ""
}

func violatedIDs(findings []model.PolicyFinding) []string {
	var ids []string
	for _, f := range findings {
		if f.PossibleViolation {
			ids = append(ids, f.PolicyID)
		}
	}
	return ids
}
