// Package workflow maps a risk score and findings to a terminal decision.
package workflow

import (
	"fmt"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
)

// Thresholds are the score cut-offs. Scores at or above EscalateMin escalate;
// scores at or above FlagMin are flagged.
type Thresholds struct {
	EscalateMin int `yaml:"escalate_min"`
	FlagMin     int `yaml:"flag_min"`
}

// DefaultThresholds returns the stock cut-offs (70 / 40).
func DefaultThresholds() Thresholds {
	return Thresholds{EscalateMin: 70, FlagMin: 40}
}

// Validate requires 0 <= FlagMin <= EscalateMin.
func (t Thresholds) Validate() error {
	if t.FlagMin < 0 {
		return fmt.Errorf("workflow.flag_min must not be negative (got %d)", t.FlagMin)
	}
	if t.FlagMin > t.EscalateMin {
		return fmt.Errorf("workflow.flag_min (%d) exceeds escalate_min (%d)", t.FlagMin, t.EscalateMin)
	}
	return nil
}

// Classify is a pure function of its inputs. The first matching rule wins:
// a high score escalates; a moderate score or any violation flags;
// anything else is approved. Violations alone never escalate.
func Classify(score int, analysis model.PolicyAnalysis, th Thresholds) model.WorkflowResult {
	violations := analysis.HasViolations()

	var decision model.Decision
	switch {
	case score >= th.EscalateMin:
		decision = model.Escalate
	case score >= th.FlagMin || violations:
		decision = model.Flag
	default:
		decision = model.Approve
	}

	rationale := fmt.Sprintf("Decision based on risk score %d.", score)
	if violations {
		rationale += " Policy violations detected."
	}
	return model.WorkflowResult{Decision: decision, Rationale: rationale}
}
