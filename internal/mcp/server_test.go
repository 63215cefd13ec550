package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine, err := decision.NewEngine(nil, "")
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return New(engine, "test", nil)
}

func TestEvaluateFlagsUnencryptedData(t *testing.T) {
	s := newTestServer(t)

	result, out, err := s.handleEvaluate(context.Background(), &mcpsdk.CallToolRequest{}, EvaluateInput{
		Document: "We stored unencrypted customer data on a shared drive.",
		Candidates: []CandidateInput{
			{PolicyID: "SEC-002", Title: "Data Protection Policy"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatal("expected success, got error result")
	}
	if out.Decision != "Flag" {
		t.Errorf("expected Flag, got %q", out.Decision)
	}
	if out.Score != 35 {
		t.Errorf("expected score 35, got %d", out.Score)
	}
	if len(out.PolicyFindings) != 1 || !out.PolicyFindings[0].PossibleViolation {
		t.Errorf("expected one violating finding, got %+v", out.PolicyFindings)
	}
	if len(out.AuditTrail) != 3 {
		t.Errorf("expected 3 audit steps, got %d", len(out.AuditTrail))
	}
}

func TestEvaluateNoCandidates(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleEvaluate(context.Background(), &mcpsdk.CallToolRequest{}, EvaluateInput{
		Document: "Team lunch was enjoyable.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Decision != "Approve" || out.Score != 5 {
		t.Errorf("expected Approve/5, got %s/%d", out.Decision, out.Score)
	}
	if out.PolicyFindings == nil {
		t.Error("findings must be an empty list, not null")
	}
}

func TestEvaluateCancelled(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := s.handleEvaluate(ctx, &mcpsdk.CallToolRequest{}, EvaluateInput{Document: "x"}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestTaxonomyLookup(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleTaxonomy(context.Background(), &mcpsdk.CallToolRequest{}, TaxonomyInput{PolicyID: "COMP-007"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Policies) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out.Policies))
	}
	e := out.Policies[0]
	if e.RuleFamily != "financial_crime" {
		t.Errorf("expected financial_crime, got %q", e.RuleFamily)
	}
	if len(e.Keywords) == 0 || e.Keywords[0] != "cash" {
		t.Errorf("unexpected keywords %v", e.Keywords)
	}
}

func TestTaxonomyListsAllSorted(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleTaxonomy(context.Background(), &mcpsdk.CallToolRequest{}, TaxonomyInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Policies) != 10 {
		t.Fatalf("expected 10 policies, got %d", len(out.Policies))
	}
	for i := 1; i < len(out.Policies); i++ {
		if out.Policies[i-1].PolicyID >= out.Policies[i].PolicyID {
			t.Errorf("policies not sorted at %d: %s >= %s", i, out.Policies[i-1].PolicyID, out.Policies[i].PolicyID)
		}
	}
}

func TestTaxonomyUnknownID(t *testing.T) {
	s := newTestServer(t)

	if _, _, err := s.handleTaxonomy(context.Background(), &mcpsdk.CallToolRequest{}, TaxonomyInput{PolicyID: "NOPE-999"}); err == nil {
		t.Fatal("expected error for unknown policy id")
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleEvaluate(context.Background(), &mcpsdk.CallToolRequest{}, EvaluateInput{
		Document:   "Travel booked in business class, total $3,500.",
		Candidates: []CandidateInput{{PolicyID: "FIN-001", Title: "Travel and Expense Policy"}},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatal(err)
	}

	result, v, err := s.handleVerify(context.Background(), &mcpsdk.CallToolRequest{}, VerifyInput{Bundle: string(data)})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatalf("expected valid bundle, got %+v", v)
	}
	if !v.Valid || v.Steps != 3 {
		t.Errorf("unexpected verify output %+v", v)
	}

	out.Score = 99
	data, _ = json.Marshal(out)
	result, v, _ = s.handleVerify(context.Background(), &mcpsdk.CallToolRequest{}, VerifyInput{Bundle: string(data)})
	if result == nil || !result.IsError || v.Valid {
		t.Error("expected tampered bundle to fail verification")
	}
}
