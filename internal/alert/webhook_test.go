package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func init() {
	retryDelay = func(int) time.Duration { return time.Millisecond }
}

func countingServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var called atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &called
}

func TestDispatchMatchesEvents(t *testing.T) {
	srv, called := countingServer(t, http.StatusOK)

	d := NewDispatcher([]Config{{URL: srv.URL, Format: "generic", Events: []string{"Escalate"}}}, nil)
	if n := d.Dispatch(context.Background(), Event{Decision: "Escalate", Score: 90}); n != 1 {
		t.Errorf("expected 1 webhook targeted, got %d", n)
	}
	d.Wait()

	if called.Load() != 1 {
		t.Errorf("expected 1 call, got %d", called.Load())
	}
}

func TestDispatchSkipsNonMatching(t *testing.T) {
	srv, called := countingServer(t, http.StatusOK)

	d := NewDispatcher([]Config{{URL: srv.URL, Format: "generic", Events: []string{"Escalate"}}}, nil)
	d.Dispatch(context.Background(), Event{Decision: "Approve", Score: 5})
	d.Wait()

	if called.Load() != 0 {
		t.Errorf("expected 0 calls for non-matching event, got %d", called.Load())
	}
}

func TestDispatchMultipleWebhooks(t *testing.T) {
	srv1, called1 := countingServer(t, http.StatusOK)
	srv2, called2 := countingServer(t, http.StatusOK)

	d := NewDispatcher([]Config{
		{URL: srv1.URL, Format: "generic", Events: []string{"Escalate"}},
		{URL: srv2.URL, Format: "slack", Events: []string{"Flag", "Escalate"}},
	}, nil)

	d.Dispatch(context.Background(), Event{Decision: "Escalate", Score: 85})
	d.Dispatch(context.Background(), Event{Decision: "Flag", Score: 45})
	d.Wait()

	if called1.Load() != 1 || called2.Load() != 2 {
		t.Errorf("expected 1 and 2 calls, got %d and %d", called1.Load(), called2.Load())
	}
}

func TestRetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := Send(context.Background(), Config{URL: srv.URL}, Event{Decision: "Flag"}); err != nil {
		t.Errorf("expected success after retries, got: %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	srv, attempts := countingServer(t, http.StatusBadRequest)

	if err := Send(context.Background(), Config{URL: srv.URL}, Event{Decision: "Flag"}); err == nil {
		t.Error("expected error on 400, got nil")
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt (no retry on 4xx), got %d", attempts.Load())
	}
}

func TestSendGivesUpAfterMaxRetries(t *testing.T) {
	srv, attempts := countingServer(t, http.StatusBadGateway)

	if err := Send(context.Background(), Config{URL: srv.URL}, Event{Decision: "Flag"}); err == nil {
		t.Error("expected error after exhausting retries")
	}
	if attempts.Load() != maxRetries {
		t.Errorf("expected %d attempts, got %d", maxRetries, attempts.Load())
	}
}

func TestSendSetsHeaders(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("X-Routing-Key"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	cfg := Config{URL: srv.URL, Headers: map[string]string{"X-Routing-Key": "abc"}}
	if err := Send(context.Background(), cfg, Event{Decision: "Escalate"}); err != nil {
		t.Fatal(err)
	}
	if got.Load() != "abc" {
		t.Errorf("expected header to be forwarded, got %v", got.Load())
	}
}

func TestFormatGenericJSON(t *testing.T) {
	event := Event{
		Timestamp:  "2026-01-15T14:00:00.000Z",
		RequestID:  "req-123",
		Decision:   "Escalate",
		Score:      90,
		Violations: []string{"COMP-007: Anti-Money Laundering"},
	}

	data, err := FormatPayload("generic", event)
	if err != nil {
		t.Fatal(err)
	}

	var parsed Event
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("generic format is not valid JSON: %v", err)
	}
	if parsed.RequestID != "req-123" || parsed.Score != 90 {
		t.Errorf("unexpected round-trip: %+v", parsed)
	}
}

func TestFormatSlackBlockKit(t *testing.T) {
	data, err := FormatPayload("slack", Event{Decision: "Flag", Score: 45, Explanation: "Risk score based on 1 violations."})
	if err != nil {
		t.Fatal(err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("slack format is not valid JSON: %v", err)
	}
	blocks, ok := parsed["blocks"].([]any)
	if !ok || len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %v", parsed["blocks"])
	}
	header, _ := blocks[0].(map[string]any)
	if header["type"] != "header" {
		t.Errorf("expected header block, got %v", header["type"])
	}
	section, _ := blocks[1].(map[string]any)
	if fields, ok := section["fields"].([]any); !ok || len(fields) != 4 {
		t.Errorf("expected 4 fields in section, got %v", section["fields"])
	}
}

func TestFormatPagerDutySeverity(t *testing.T) {
	tests := map[string]string{"Escalate": "critical", "Flag": "warning", "Approve": "info"}
	for decision, want := range tests {
		data, err := FormatPayload("pagerduty", Event{Decision: decision})
		if err != nil {
			t.Fatal(err)
		}
		var parsed map[string]any
		if err := json.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("pagerduty format is not valid JSON: %v", err)
		}
		payload, _ := parsed["payload"].(map[string]any)
		if payload["severity"] != want {
			t.Errorf("%s: expected severity %s, got %v", decision, want, payload["severity"])
		}
		if payload["source"] != "compliance" {
			t.Errorf("expected source compliance, got %v", payload["source"])
		}
	}
}

func TestNewDispatcherNilOnEmpty(t *testing.T) {
	if d := NewDispatcher(nil, nil); d != nil {
		t.Error("expected nil dispatcher for empty configs")
	}
	if d := NewDispatcher([]Config{}, nil); d != nil {
		t.Error("expected nil dispatcher for zero-length configs")
	}
}

func TestConfigValidate(t *testing.T) {
	ok := Config{URL: "https://hooks.example.com/x", Format: "slack", Events: []string{"Flag", "Escalate"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := []Config{
		{Format: "generic", Events: []string{"Flag"}},
		{URL: "https://x", Format: "teams", Events: []string{"Flag"}},
		{URL: "https://x", Events: nil},
		{URL: "https://x", Events: []string{"deny"}},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}
