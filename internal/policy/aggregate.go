package policy

import (
	"fmt"
	"strings"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
)

// Aggregate builds the analysis from findings in a single ordered pass.
// Every violating finding contributes exactly one "policy_id: title" entry.
func Aggregate(findings []model.PolicyFinding) model.PolicyAnalysis {
	analysis := model.PolicyAnalysis{
		Findings:   make([]model.PolicyFinding, 0, len(findings)),
		Violations: []string{},
		Warnings:   []string{},
	}

	for _, f := range findings {
		analysis.Findings = append(analysis.Findings, f.Clone())
		if f.PossibleViolation {
			analysis.Violations = append(analysis.Violations, f.ViolationEntry())
		}
		analysis.Warnings = append(analysis.Warnings, f.Warnings...)
	}

	analysis.Summary = Summary(len(findings), analysis.Violations, analysis.Warnings)
	return analysis
}

// Summary renders the deterministic headline used whenever no external
// summary is available.
func Summary(relevant int, violations, warnings []string) string {
	summary := fmt.Sprintf("Found %d relevant policies.", relevant)
	switch {
	case len(violations) > 0:
		summary += fmt.Sprintf(" Potential violations: %s.", strings.Join(violations, ", "))
	case len(warnings) > 0:
		summary += " Approvals or reviews may be required."
	}
	return summary
}
