package policy

import (
	"fmt"
	"sort"
)

// TravelLimits parameterises the travel_expense rule family.
type TravelLimits struct {
	ClassPhrases      []string `yaml:"class_phrases"`
	DirectorThreshold float64  `yaml:"director_threshold"`
	ManagerThreshold  float64  `yaml:"manager_threshold"`
}

// FinancialCrimeLimits parameterises the financial_crime rule family.
type FinancialCrimeLimits struct {
	CashKeyword            string  `yaml:"cash_keyword"`
	CashReportingThreshold float64 `yaml:"cash_reporting_threshold"`
	SanctionsKeyword       string  `yaml:"sanctions_keyword"`
}

// DataSecurityLimits parameterises the data_security rule family.
type DataSecurityLimits struct {
	Keywords []string `yaml:"keywords"`
}

// Limits groups the thresholds and trigger phrases used by rule families.
type Limits struct {
	Travel         TravelLimits         `yaml:"travel"`
	FinancialCrime FinancialCrimeLimits `yaml:"financial_crime"`
	DataSecurity   DataSecurityLimits   `yaml:"data_security"`
}

// Config is the matcher configuration: the keyword taxonomy, the binding of
// policy ids to built-in rule families, and the rule limits.
//
// Rules can only reference families compiled into this package; the config
// binds ids to them and tunes their limits, it cannot define new logic.
type Config struct {
	Taxonomy map[string][]string `yaml:"taxonomy"`
	Rules    map[string]string   `yaml:"rules"`
	Limits   Limits              `yaml:"limits"`
}

// DefaultConfig returns the built-in catalog. Each call returns fresh maps,
// so YAML can be decoded on top of it without touching shared state.
func DefaultConfig() *Config {
	return &Config{
		Taxonomy: DefaultTaxonomy(),
		Rules: map[string]string{
			"FIN-001":  FamilyTravelExpense,
			"COMP-007": FamilyFinancialCrime,
			"SEC-002":  FamilyDataSecurity,
		},
		Limits: Limits{
			Travel: TravelLimits{
				ClassPhrases:      []string{"business class"},
				DirectorThreshold: 2000,
				ManagerThreshold:  500,
			},
			FinancialCrime: FinancialCrimeLimits{
				CashKeyword:            "cash",
				CashReportingThreshold: 10000,
				SanctionsKeyword:       "sanction",
			},
			DataSecurity: DataSecurityLimits{
				Keywords: []string{"unencrypted", "plain text"},
			},
		},
	}
}

// Validate checks rule bindings and limit ordering.
func (c *Config) Validate() error {
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if _, ok := families[c.Rules[id]]; !ok {
			return fmt.Errorf("rules.%s: unknown rule family %q", id, c.Rules[id])
		}
	}

	t := c.Limits.Travel
	if t.ManagerThreshold < 0 || t.DirectorThreshold < 0 {
		return fmt.Errorf("limits.travel: thresholds must not be negative")
	}
	if t.ManagerThreshold > t.DirectorThreshold {
		return fmt.Errorf("limits.travel: manager_threshold (%v) exceeds director_threshold (%v)",
			t.ManagerThreshold, t.DirectorThreshold)
	}
	if c.Limits.FinancialCrime.CashReportingThreshold < 0 {
		return fmt.Errorf("limits.financial_crime: cash_reporting_threshold must not be negative")
	}
	return nil
}

// KeywordsFor returns the taxonomy keywords for a policy id (nil if unknown).
func (c *Config) KeywordsFor(policyID string) []string {
	return c.Taxonomy[policyID]
}

// FamilyFor returns the rule family bound to a policy id, or "" if none.
func (c *Config) FamilyFor(policyID string) string {
	return c.Rules[policyID]
}
