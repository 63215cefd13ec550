// Package risk turns policy findings into a bounded, explainable score.
package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
	"github.com/Muqadas1234/compliance-policy-ai/internal/textnorm"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Score computes a deterministic risk score for the document.
//
// This is cumulative scoring, not anomaly detection: a base value plus a
// fixed weight per violation, per warning, and per distinct high-risk term
// found in the document, clamped to [MinScore, MaxScore].
func Score(text string, analysis model.PolicyAnalysis, cfg *Config) model.RiskResult {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	terms := textnorm.MatchTerms(textnorm.Fold(text), textnorm.FoldAll(cfg.HighRiskTerms))
	nViolations := len(analysis.Violations)
	nWarnings := len(analysis.Warnings)

	return model.RiskResult{
		Score:        Points(nViolations, nWarnings, len(terms), cfg.Weights),
		Explanation:  explain(analysis.Violations, analysis.Warnings, terms),
		HighRiskHits: len(terms),
		MatchedTerms: terms,
	}
}

// Points applies the weights to the counts. Arithmetic saturates, so any
// combination of counts yields a score inside the bounds.
func Points(violations, warnings, terms int, w Weights) int {
	total := int64(w.Base)
	total = satAdd(total, satMul(int64(w.Violation), int64(violations)))
	total = satAdd(total, satMul(int64(w.Warning), int64(warnings)))
	total = satAdd(total, satMul(int64(w.Term), int64(terms)))
	return clamp(total)
}

func clamp(v int64) int {
	switch {
	case v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	}
	return int(v)
}

func explain(violations, warnings, terms []string) string {
	lines := []string{
		fmt.Sprintf("Risk score based on %d violations, %d warnings, and %d high-risk indicators.",
			len(violations), len(warnings), len(terms)),
	}
	if len(violations) > 0 {
		lines = append(lines, "Top violations: "+strings.Join(head(violations, 3), ", ")+".")
	}
	if len(warnings) > 0 {
		lines = append(lines, "Warnings: "+strings.Join(head(warnings, 3), ", ")+".")
	}
	if len(terms) > 0 {
		lines = append(lines, "High-risk terms found: "+strings.Join(head(terms, 5), ", ")+".")
	}
	return strings.Join(lines, "\n")
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func satAdd(a, b int64) int64 {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt64
	case b < 0 && s > a:
		return math.MinInt64
	}
	return s
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	overflow := p/b != a ||
		(a == -1 && b == math.MinInt64) ||
		(b == -1 && a == math.MinInt64)
	if !overflow {
		return p
	}
	if (a < 0) != (b < 0) {
		return math.MinInt64
	}
	return math.MaxInt64
}
