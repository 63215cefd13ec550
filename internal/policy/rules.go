package policy

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Muqadas1234/compliance-policy-ai/internal/money"
	"github.com/Muqadas1234/compliance-policy-ai/internal/textnorm"
)

// Built-in rule families. A policy id is bound to at most one family.
const (
	FamilyTravelExpense  = "travel_expense"
	FamilyFinancialCrime = "financial_crime"
	FamilyDataSecurity   = "data_security"
)

// RuleInput is everything a rule may look at. Text is already folded.
type RuleInput struct {
	Relevant bool
	Text     string
	Amounts  []float64
	Limits   Limits
}

// RuleOutcome is what a rule contributes to a finding.
type RuleOutcome struct {
	Notes     []string
	Violation bool
	Warnings  []string
}

// Rule is a pure detection function for one policy family.
type Rule func(in RuleInput) RuleOutcome

// families is the fixed rule catalog.
var families = map[string]Rule{
	FamilyTravelExpense:  travelExpenseRule,
	FamilyFinancialCrime: financialCrimeRule,
	FamilyDataSecurity:   dataSecurityRule,
}

// Families returns the names of the built-in rule families.
func Families() []string {
	return []string{FamilyTravelExpense, FamilyFinancialCrime, FamilyDataSecurity}
}

// RuleFor returns the rule bound to policyID, or nil when the id has no rule.
func (c *Config) RuleFor(policyID string) Rule {
	return families[c.Rules[policyID]]
}

// travelExpenseRule: a travel-class phrase is advisory only. Above the
// director threshold the expense is a violation; otherwise above the manager
// threshold it needs pre-approval (warning). Only the higher check fires.
func travelExpenseRule(in RuleInput) RuleOutcome {
	var out RuleOutcome
	if !in.Relevant {
		return out
	}
	lim := in.Limits.Travel

	for _, phrase := range lim.ClassPhrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(in.Text, textnorm.Fold(phrase)) {
			out.Notes = append(out.Notes, fmt.Sprintf("%s mentioned; verify duration/approval.", upperFirst(phrase)))
		}
	}

	maxAmount, ok := money.Max(in.Amounts)
	switch {
	case ok && maxAmount > lim.DirectorThreshold:
		out.Notes = append(out.Notes, fmt.Sprintf("Expenses over %s require Finance Director approval.",
			money.FormatUSD(lim.DirectorThreshold)))
		out.Violation = true
	case ok && maxAmount > lim.ManagerThreshold:
		out.Notes = append(out.Notes, fmt.Sprintf("Expenses over %s require manager pre-approval.",
			money.FormatUSD(lim.ManagerThreshold)))
		out.Warnings = append(out.Warnings, "Expense approval required.")
	}
	return out
}

// financialCrimeRule: large cash and sanctions mentions are checked
// independently and may both fire.
func financialCrimeRule(in RuleInput) RuleOutcome {
	var out RuleOutcome
	if !in.Relevant {
		return out
	}
	lim := in.Limits.FinancialCrime

	maxAmount, ok := money.Max(in.Amounts)
	if containsFolded(in.Text, lim.CashKeyword) && ok && maxAmount >= lim.CashReportingThreshold {
		out.Notes = append(out.Notes, fmt.Sprintf("Cash transactions over %s require investigation.",
			money.FormatUSD(lim.CashReportingThreshold)))
		out.Violation = true
	}
	if containsFolded(in.Text, lim.SanctionsKeyword) {
		out.Notes = append(out.Notes, "Sanctions-related activity must be blocked.")
		out.Violation = true
	}
	return out
}

func dataSecurityRule(in RuleInput) RuleOutcome {
	var out RuleOutcome
	if !in.Relevant {
		return out
	}
	for _, kw := range in.Limits.DataSecurity.Keywords {
		if containsFolded(in.Text, kw) {
			out.Notes = append(out.Notes, "Unencrypted personal data is prohibited.")
			out.Violation = true
			break
		}
	}
	return out
}

func containsFolded(folded, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(folded, textnorm.Fold(term))
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
