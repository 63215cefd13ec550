// Package metrics exposes pipeline counters and histograms to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Summarizer outcomes recorded per run.
const (
	SummaryDisabled    = "disabled"
	SummaryUsed        = "used"
	SummaryEmpty       = "empty"
	SummaryError       = "error"
	SummaryTimeout     = "timeout"
	SummaryCanceled    = "canceled"
	SummaryRateLimited = "rate_limited"
)

// Collector owns a private registry so tests and multiple engines never
// collide on the global default registry.
//
// Metrics:
//   - compliance_pipeline_runs_total{decision}
//   - compliance_pipeline_failures_total
//   - compliance_pipeline_risk_score
//   - compliance_pipeline_run_duration_seconds
//   - compliance_pipeline_summarizer_total{outcome}
//   - compliance_pipeline_violations_total{policy_id}
//   - compliance_pipeline_config_reloads_total{result}
type Collector struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	failuresTotal   prometheus.Counter
	riskScore       prometheus.Histogram
	runDuration     prometheus.Histogram
	summarizerTotal *prometheus.CounterVec
	violationsTotal *prometheus.CounterVec
	reloadsTotal    *prometheus.CounterVec
}

// NewCollector creates and registers all metrics. If registry is nil a new
// private registry is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	const ns, sub = "compliance", "pipeline"

	c := &Collector{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "runs_total",
			Help: "Completed pipeline runs by decision",
		}, []string{"decision"}),
		failuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "failures_total",
			Help: "Pipeline runs that returned an error",
		}),
		riskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub,
			Name:    "risk_score",
			Help:    "Distribution of risk scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Subsystem: sub,
			Name: "run_duration_seconds",
			Help: "Wall time of a pipeline run including any summarizer call",
			// 100µs to ~26s
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		summarizerTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "summarizer_total",
			Help: "Summarizer outcomes per run",
		}, []string{"outcome"}),
		violationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "violations_total",
			Help: "Possible violations by policy id",
		}, []string{"policy_id"}),
		reloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Subsystem: sub,
			Name: "config_reloads_total",
			Help: "Configuration reload attempts by result",
		}, []string{"result"}),
	}

	registry.MustRegister(
		c.runsTotal,
		c.failuresTotal,
		c.riskScore,
		c.runDuration,
		c.summarizerTotal,
		c.violationsTotal,
		c.reloadsTotal,
	)
	return c
}

// RecordRun records a completed run.
func (c *Collector) RecordRun(decision string, score int, violatedPolicies []string, d time.Duration) {
	if c == nil {
		return
	}
	c.runsTotal.WithLabelValues(decision).Inc()
	c.riskScore.Observe(float64(score))
	c.runDuration.Observe(d.Seconds())
	for _, id := range violatedPolicies {
		c.violationsTotal.WithLabelValues(id).Inc()
	}
}

// RecordFailure records a run that produced no bundle.
func (c *Collector) RecordFailure() {
	if c == nil {
		return
	}
	c.failuresTotal.Inc()
}

// RecordSummarizer records the summarizer outcome of a run.
func (c *Collector) RecordSummarizer(outcome string) {
	if c == nil {
		return
	}
	c.summarizerTotal.WithLabelValues(outcome).Inc()
}

// RecordReload records a configuration reload attempt.
func (c *Collector) RecordReload(ok bool) {
	if c == nil {
		return
	}
	result := "success"
	if !ok {
		result = "error"
	}
	c.reloadsTotal.WithLabelValues(result).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
