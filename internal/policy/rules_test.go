package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRulesIgnoreIrrelevantInput(t *testing.T) {
	in := RuleInput{Relevant: false, Text: "unencrypted cash sanction business class", Amounts: []float64{1e6}, Limits: DefaultConfig().Limits}
	for _, name := range Families() {
		out := families[name](in)
		assert.False(t, out.Violation, name)
		assert.Empty(t, out.Notes, name)
	}
}

func TestTravelRuleCustomLimits(t *testing.T) {
	lim := DefaultConfig().Limits
	lim.Travel.DirectorThreshold = 10000
	lim.Travel.ManagerThreshold = 1000
	lim.Travel.ClassPhrases = []string{"first class", ""}

	out := travelExpenseRule(RuleInput{Relevant: true, Text: "first class upgrade", Amounts: []float64{2500}, Limits: lim})

	assert.False(t, out.Violation)
	assert.Equal(t, []string{
		"First class mentioned; verify duration/approval.",
		"Expenses over $1,000 require manager pre-approval.",
	}, out.Notes)
	assert.Equal(t, []string{"Expense approval required."}, out.Warnings)
}

func TestFinancialCrimeCashNeedsAmount(t *testing.T) {
	lim := DefaultConfig().Limits
	out := financialCrimeRule(RuleInput{Relevant: true, Text: "cash only", Limits: lim})
	assert.False(t, out.Violation)

	out = financialCrimeRule(RuleInput{Relevant: true, Text: "cash only", Amounts: []float64{10000}, Limits: lim})
	assert.True(t, out.Violation)
}

func TestDataSecurityNoteOnce(t *testing.T) {
	out := dataSecurityRule(RuleInput{Relevant: true, Text: "unencrypted files and plain text passwords", Limits: DefaultConfig().Limits})
	assert.True(t, out.Violation)
	assert.Len(t, out.Notes, 1)
}

func TestUpperFirst(t *testing.T) {
	assert.Equal(t, "Business class", upperFirst("business class"))
	assert.Equal(t, "Économie", upperFirst("économie"))
	assert.Equal(t, "", upperFirst(""))
}
