package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecordRun(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordRun("Flag", 45, []string{"SEC-002"}, 2*time.Millisecond)
	c.RecordRun("Flag", 25, []string{"SEC-002", "FIN-001"}, time.Millisecond)
	c.RecordRun("Approve", 5, nil, time.Millisecond)

	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues("Flag")); got != 2 {
		t.Errorf("expected 2 Flag runs, got %v", got)
	}
	if got := testutil.ToFloat64(c.runsTotal.WithLabelValues("Approve")); got != 1 {
		t.Errorf("expected 1 Approve run, got %v", got)
	}
	if got := testutil.ToFloat64(c.violationsTotal.WithLabelValues("SEC-002")); got != 2 {
		t.Errorf("expected 2 SEC-002 violations, got %v", got)
	}
	if got := testutil.CollectAndCount(c.riskScore); got != 1 {
		t.Errorf("expected one risk score series, got %d", got)
	}
}

func TestCollectorSummarizerAndFailures(t *testing.T) {
	c := NewCollector(nil)

	c.RecordSummarizer(SummaryUsed)
	c.RecordSummarizer(SummaryTimeout)
	c.RecordSummarizer(SummaryTimeout)
	c.RecordFailure()
	c.RecordReload(true)
	c.RecordReload(false)

	if got := testutil.ToFloat64(c.summarizerTotal.WithLabelValues(SummaryTimeout)); got != 2 {
		t.Errorf("expected 2 timeouts, got %v", got)
	}
	if got := testutil.ToFloat64(c.failuresTotal); got != 1 {
		t.Errorf("expected 1 failure, got %v", got)
	}
	if got := testutil.ToFloat64(c.reloadsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed reload, got %v", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.RecordRun("Approve", 5, nil, time.Millisecond)
	c.RecordFailure()
	c.RecordSummarizer(SummaryDisabled)
	c.RecordReload(true)
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector(nil)
	c.RecordRun("Escalate", 90, nil, time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `compliance_pipeline_runs_total{decision="Escalate"} 1`) {
		t.Errorf("metrics output missing run counter:\n%s", body)
	}
}

func TestSeparateCollectorsDoNotCollide(t *testing.T) {
	a := NewCollector(nil)
	b := NewCollector(nil)
	a.RecordFailure()

	if testutil.ToFloat64(b.failuresTotal) != 0 {
		t.Error("collectors share state")
	}
}
