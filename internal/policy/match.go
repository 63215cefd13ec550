package policy

import (
	"strings"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
	"github.com/Muqadas1234/compliance-policy-ai/internal/money"
	"github.com/Muqadas1234/compliance-policy-ai/internal/textnorm"
)

// Match evaluates every candidate against the document, in input order.
//
// A candidate is relevant when one of its taxonomy keywords occurs in the
// document (case-insensitive) or its policy id appears verbatim. The
// retrieval relevance score is carried through but never decides relevance.
// Each relevant candidate yields exactly one finding; others yield none.
func Match(text string, candidates []model.PolicyCandidate, cfg *Config) []model.PolicyFinding {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	folded := textnorm.Fold(text)
	amounts := money.ExtractAmounts(text)

	findings := []model.PolicyFinding{}
	for _, raw := range candidates {
		c := raw.Normalized()

		hits := textnorm.MatchTerms(folded, textnorm.FoldAll(cfg.KeywordsFor(c.PolicyID)))
		relevant := len(hits) > 0 || strings.Contains(text, c.PolicyID)
		if !relevant {
			continue
		}

		finding := model.PolicyFinding{
			PolicyID:       c.PolicyID,
			Title:          c.Title,
			Category:       c.Category,
			RelevanceScore: c.RelevanceScore,
			Notes:          []string{},
			KeywordHits:    hits,
		}

		if rule := cfg.RuleFor(c.PolicyID); rule != nil {
			out := rule(RuleInput{
				Relevant: relevant,
				Text:     folded,
				Amounts:  amounts,
				Limits:   cfg.Limits,
			})
			finding.Notes = append(finding.Notes, out.Notes...)
			finding.PossibleViolation = out.Violation
			if len(out.Warnings) > 0 {
				finding.Warnings = append([]string{}, out.Warnings...)
			}
		}

		findings = append(findings, finding)
	}
	return findings
}
