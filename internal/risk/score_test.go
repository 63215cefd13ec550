package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
)

func TestScoreBaseOnly(t *testing.T) {
	r := Score("Quarterly newsletter about the team offsite.", model.PolicyAnalysis{}, nil)

	assert.Equal(t, 5, r.Score)
	assert.Equal(t, 0, r.HighRiskHits)
	assert.Equal(t, "Risk score based on 0 violations, 0 warnings, and 0 high-risk indicators.", r.Explanation)
}

func TestScoreWeightsAndExplanation(t *testing.T) {
	analysis := model.PolicyAnalysis{
		Violations: []string{"SEC-002: Data Protection"},
		Warnings:   []string{"Expense approval required."},
	}
	r := Score("Unencrypted customer data left after a breach.", analysis, nil)

	// 5 + 20 + 8 + 2*10
	assert.Equal(t, 53, r.Score)
	assert.Equal(t, 2, r.HighRiskHits)
	assert.Equal(t, []string{"breach", "unencrypted"}, r.MatchedTerms)
	assert.Equal(t,
		"Risk score based on 1 violations, 1 warnings, and 2 high-risk indicators.\n"+
			"Top violations: SEC-002: Data Protection.\n"+
			"Warnings: Expense approval required.\n"+
			"High-risk terms found: breach, unencrypted.",
		r.Explanation)
}

func TestScoreTermsCountedOnce(t *testing.T) {
	r := Score("fraud fraud FRAUD", model.PolicyAnalysis{}, nil)
	assert.Equal(t, 15, r.Score)
	assert.Equal(t, 1, r.HighRiskHits)
}

func TestScoreExplanationTruncates(t *testing.T) {
	analysis := model.PolicyAnalysis{
		Violations: []string{"A: a", "B: b", "C: c", "D: d"},
	}
	r := Score("sanction money laundering breach unencrypted fraud bribe cash", analysis, nil)

	assert.Equal(t, MaxScore, r.Score)
	assert.Contains(t, r.Explanation, "Top violations: A: a, B: b, C: c.\n")
	assert.Contains(t, r.Explanation, "High-risk terms found: sanction, money laundering, breach, unencrypted, fraud.")
	assert.NotContains(t, r.Explanation, "D: d")
}

func TestPointsClampInvariant(t *testing.T) {
	w := DefaultConfig().Weights
	counts := []int{0, 1, 2, 3, 4, 5, 10, 1000, math.MaxInt32, math.MaxInt}
	for _, v := range counts {
		for _, wa := range counts {
			for _, tm := range counts {
				got := Points(v, wa, tm, w)
				require.GreaterOrEqual(t, got, MinScore)
				require.LessOrEqual(t, got, MaxScore)
			}
		}
	}
	assert.Equal(t, MaxScore, Points(math.MaxInt, math.MaxInt, math.MaxInt, w))
}

func TestPointsNegativeWeightsClampLow(t *testing.T) {
	w := Weights{Base: 0, Violation: -50}
	assert.Equal(t, MinScore, Points(3, 0, 0, w))
	assert.Equal(t, MinScore, Points(math.MaxInt, 0, 0, w))
}

func TestSaturatingArithmetic(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), satAdd(math.MaxInt64, 1))
	assert.Equal(t, int64(math.MinInt64), satAdd(math.MinInt64, -1))
	assert.Equal(t, int64(math.MaxInt64), satMul(math.MaxInt64, 2))
	assert.Equal(t, int64(math.MinInt64), satMul(math.MaxInt64, -2))
	assert.Equal(t, int64(math.MaxInt64), satMul(-1, math.MinInt64))
	assert.Equal(t, int64(60), satMul(20, 3))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Weights.Warning = -1
	assert.Error(t, cfg.Validate())
}
