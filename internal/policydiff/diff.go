// Package policydiff compares two pipeline configurations and labels each
// change as stricter or looser.
package policydiff

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
)

// Change represents a scalar field change or a list membership change.
type Change struct {
	Field   string `json:"field"`
	Old     string `json:"old"`
	New     string `json:"new"`
	Comment string `json:"comment,omitempty"`
}

// RuleChange represents a rule binding addition, removal, or modification.
type RuleChange struct {
	Type string `json:"type"` // "added", "removed", "changed"
	Rule string `json:"rule"`
}

// DiffResult holds the comparison of two configs.
type DiffResult struct {
	OldPath     string       `json:"old_path"`
	NewPath     string       `json:"new_path"`
	Changes     []Change     `json:"changes"`
	RuleChanges []RuleChange `json:"rule_changes"`
	HasChanges  bool         `json:"has_changes"`
}

// Diff compares two configs and returns the differences.
func Diff(old, new *decision.Config) *DiffResult {
	r := &DiffResult{}

	// Lower thresholds escalate and flag more documents.
	diffInt(r, "workflow.escalate_min", old.Workflow.EscalateMin, new.Workflow.EscalateMin, false)
	diffInt(r, "workflow.flag_min", old.Workflow.FlagMin, new.Workflow.FlagMin, false)

	ow, nw := old.Risk.Weights, new.Risk.Weights
	diffInt(r, "risk.weights.base", ow.Base, nw.Base, true)
	diffInt(r, "risk.weights.violation", ow.Violation, nw.Violation, true)
	diffInt(r, "risk.weights.warning", ow.Warning, nw.Warning, true)
	diffInt(r, "risk.weights.high_risk_term", ow.Term, nw.Term, true)
	diffList(r, "risk.high_risk_terms", old.Risk.HighRiskTerms, new.Risk.HighRiskTerms)

	ol, nl := old.Policy.Limits, new.Policy.Limits
	diffAmount(r, "policy.limits.travel.director_threshold", ol.Travel.DirectorThreshold, nl.Travel.DirectorThreshold)
	diffAmount(r, "policy.limits.travel.manager_threshold", ol.Travel.ManagerThreshold, nl.Travel.ManagerThreshold)
	diffAmount(r, "policy.limits.financial_crime.cash_reporting_threshold",
		ol.FinancialCrime.CashReportingThreshold, nl.FinancialCrime.CashReportingThreshold)
	diffList(r, "policy.limits.travel.class_phrases", ol.Travel.ClassPhrases, nl.Travel.ClassPhrases)
	diffList(r, "policy.limits.data_security.keywords", ol.DataSecurity.Keywords, nl.DataSecurity.Keywords)

	diffRules(r, old.Policy.Rules, new.Policy.Rules)

	for _, id := range unionKeys(old.Policy.Taxonomy, new.Policy.Taxonomy) {
		diffList(r, "policy.taxonomy."+id, old.Policy.Taxonomy[id], new.Policy.Taxonomy[id])
	}

	diffList(r, "alerts", alertURLs(old), alertURLs(new))

	r.HasChanges = len(r.Changes) > 0 || len(r.RuleChanges) > 0
	return r
}

func diffInt(r *DiffResult, field string, old, new int, higherIsStricter bool) {
	if old != new {
		r.Changes = append(r.Changes, Change{
			Field:   field,
			Old:     strconv.Itoa(old),
			New:     strconv.Itoa(new),
			Comment: comment(new > old, higherIsStricter),
		})
	}
}

// diffAmount compares monetary limits; a lower limit is stricter.
func diffAmount(r *DiffResult, field string, old, new float64) {
	if old != new {
		r.Changes = append(r.Changes, Change{
			Field:   field,
			Old:     strconv.FormatFloat(old, 'f', -1, 64),
			New:     strconv.FormatFloat(new, 'f', -1, 64),
			Comment: comment(new > old, false),
		})
	}
}

func comment(increased, higherIsStricter bool) string {
	if increased == higherIsStricter {
		return "stricter"
	}
	return "looser"
}

// diffList records members added to or removed from a list, in list order.
func diffList(r *DiffResult, field string, old, new []string) {
	oldSet := make(map[string]bool, len(old))
	for _, v := range old {
		oldSet[v] = true
	}
	newSet := make(map[string]bool, len(new))
	for _, v := range new {
		newSet[v] = true
	}

	for _, v := range new {
		if !oldSet[v] {
			r.Changes = append(r.Changes, Change{Field: field, New: v, Comment: "added"})
		}
	}
	for _, v := range old {
		if !newSet[v] {
			r.Changes = append(r.Changes, Change{Field: field, Old: v, Comment: "removed"})
		}
	}
}

func diffRules(r *DiffResult, oldRules, newRules map[string]string) {
	for _, id := range unionKeys(oldRules, newRules) {
		oldFamily, inOld := oldRules[id]
		newFamily, inNew := newRules[id]
		switch {
		case !inOld:
			r.RuleChanges = append(r.RuleChanges, RuleChange{
				Type: "added",
				Rule: fmt.Sprintf("%s → %s", id, newFamily),
			})
		case !inNew:
			r.RuleChanges = append(r.RuleChanges, RuleChange{
				Type: "removed",
				Rule: fmt.Sprintf("%s → %s", id, oldFamily),
			})
		case oldFamily != newFamily:
			r.RuleChanges = append(r.RuleChanges, RuleChange{
				Type: "changed",
				Rule: fmt.Sprintf("%s → %s (was: %s)", id, newFamily, oldFamily),
			})
		}
	}
}

func unionKeys[V any](a, b map[string]V) []string {
	seen := make(map[string]bool, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for _, m := range []map[string]V{a, b} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func alertURLs(cfg *decision.Config) []string {
	urls := make([]string, 0, len(cfg.Alerts))
	for _, a := range cfg.Alerts {
		urls = append(urls, a.URL)
	}
	return urls
}
