package policydiff

import (
	"strings"
	"testing"

	"github.com/Muqadas1234/compliance-policy-ai/internal/alert"
	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
	"github.com/Muqadas1234/compliance-policy-ai/internal/policy"
)

func findChange(r *DiffResult, field string) (Change, bool) {
	for _, c := range r.Changes {
		if c.Field == field {
			return c, true
		}
	}
	return Change{}, false
}

func TestIdenticalConfigsNoChanges(t *testing.T) {
	r := Diff(decision.DefaultConfig(), decision.DefaultConfig())
	if r.HasChanges {
		t.Errorf("expected no changes, got %d changes + %d rule changes",
			len(r.Changes), len(r.RuleChanges))
	}
}

func TestChangedThresholdDetected(t *testing.T) {
	a := decision.DefaultConfig()
	b := decision.DefaultConfig()
	b.Workflow.EscalateMin = 60

	r := Diff(a, b)
	if !r.HasChanges {
		t.Fatal("expected changes")
	}

	c, ok := findChange(r, "workflow.escalate_min")
	if !ok {
		t.Fatal("escalate_min change not found")
	}
	if c.Old != "70" || c.New != "60" {
		t.Errorf("expected 70→60, got %s→%s", c.Old, c.New)
	}
	if c.Comment != "stricter" {
		t.Errorf("expected 'stricter', got %q", c.Comment)
	}
}

func TestChangedWeight(t *testing.T) {
	a := decision.DefaultConfig()
	b := decision.DefaultConfig()
	b.Risk.Weights.Violation = 15

	r := Diff(a, b)
	c, ok := findChange(r, "risk.weights.violation")
	if !ok {
		t.Fatal("violation weight change not found")
	}
	if c.Old != "20" || c.New != "15" {
		t.Errorf("expected 20→15, got %s→%s", c.Old, c.New)
	}
	if c.Comment != "looser" {
		t.Errorf("expected 'looser', got %q", c.Comment)
	}
}

func TestChangedLimit(t *testing.T) {
	a := decision.DefaultConfig()
	b := decision.DefaultConfig()
	b.Policy.Limits.FinancialCrime.CashReportingThreshold = 5000

	r := Diff(a, b)
	c, ok := findChange(r, "policy.limits.financial_crime.cash_reporting_threshold")
	if !ok {
		t.Fatal("cash threshold change not found")
	}
	if c.Old != "10000" || c.New != "5000" || c.Comment != "stricter" {
		t.Errorf("unexpected change %+v", c)
	}
}

func TestRuleBindingChanges(t *testing.T) {
	a := decision.DefaultConfig()
	b := decision.DefaultConfig()
	delete(b.Policy.Rules, "SEC-002")
	b.Policy.Rules["FIN-004"] = policy.FamilyFinancialCrime
	b.Policy.Rules["FIN-001"] = policy.FamilyFinancialCrime

	r := Diff(a, b)
	types := map[string]string{}
	for _, rc := range r.RuleChanges {
		types[rc.Type] = rc.Rule
	}
	if types["added"] != "FIN-004 → financial_crime" {
		t.Errorf("unexpected added rule %q", types["added"])
	}
	if types["removed"] != "SEC-002 → data_security" {
		t.Errorf("unexpected removed rule %q", types["removed"])
	}
	if types["changed"] != "FIN-001 → financial_crime (was: travel_expense)" {
		t.Errorf("unexpected changed rule %q", types["changed"])
	}
}

func TestListMembershipChanges(t *testing.T) {
	a := decision.DefaultConfig()
	b := decision.DefaultConfig()
	b.Risk.HighRiskTerms = append(b.Risk.HighRiskTerms[1:], "kickback")
	b.Policy.Taxonomy["GIFT-011"] = []string{"gift card"}
	b.Alerts = []alert.Config{{URL: "https://hooks.example.com/x", Events: []string{"Escalate"}}}

	r := Diff(a, b)
	if c, ok := findChange(r, "policy.taxonomy.GIFT-011"); !ok || c.New != "gift card" || c.Comment != "added" {
		t.Errorf("taxonomy addition not reported: %+v", r.Changes)
	}
	if c, ok := findChange(r, "alerts"); !ok || c.Comment != "added" {
		t.Errorf("alert addition not reported: %+v", r.Changes)
	}

	var added, removed bool
	for _, c := range r.Changes {
		if c.Field != "risk.high_risk_terms" {
			continue
		}
		added = added || (c.Comment == "added" && c.New == "kickback")
		removed = removed || (c.Comment == "removed" && c.Old == "sanction")
	}
	if !added || !removed {
		t.Errorf("expected kickback added and sanction removed, got %+v", r.Changes)
	}
}

func TestFormatText(t *testing.T) {
	a := decision.DefaultConfig()
	b := decision.DefaultConfig()
	b.Workflow.FlagMin = 30
	b.Risk.Weights.Term = 12
	b.Policy.Rules["FIN-004"] = policy.FamilyFinancialCrime
	b.Risk.HighRiskTerms = append(b.Risk.HighRiskTerms, "kickback")

	r := Diff(a, b)
	r.OldPath, r.NewPath = "old.yaml", "new.yaml"
	out := FormatText(r)

	for _, want := range []string{
		"Config diff: old.yaml → new.yaml",
		"Workflow Thresholds:",
		"flag_min:",
		"40 → 30  (stricter)",
		"Risk Weights:",
		"12  (stricter)",
		"+ FIN-004 → financial_crime",
		"risk.high_risk_terms: + kickback",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	same := Diff(a, a)
	if !strings.Contains(FormatText(same), "No changes detected.") {
		t.Error("expected no-changes message")
	}
}

func TestFormatJSON(t *testing.T) {
	b := decision.DefaultConfig()
	b.Workflow.FlagMin = 30

	out, err := FormatJSON(Diff(decision.DefaultConfig(), b))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"field": "workflow.flag_min"`) || !strings.Contains(out, `"has_changes": true`) {
		t.Errorf("unexpected json %s", out)
	}
}
