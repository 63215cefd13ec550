package risk

import "fmt"

// Weights are the additive components of the risk score.
type Weights struct {
	Base      int `yaml:"base"`
	Violation int `yaml:"violation"`
	Warning   int `yaml:"warning"`
	Term      int `yaml:"high_risk_term"`
}

// Config tunes the scorer.
type Config struct {
	Weights       Weights  `yaml:"weights"`
	HighRiskTerms []string `yaml:"high_risk_terms"`
}

// DefaultConfig returns the stock weights and high-risk vocabulary.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Base:      5,
			Violation: 20,
			Warning:   8,
			Term:      10,
		},
		HighRiskTerms: []string{
			"sanction",
			"money laundering",
			"sar",
			"breach",
			"unencrypted",
			"fraud",
			"bribe",
			"cash",
		},
	}
}

// Validate rejects negative weights.
func (c *Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]int{
		"base":           w.Base,
		"violation":      w.Violation,
		"warning":        w.Warning,
		"high_risk_term": w.Term,
	} {
		if v < 0 {
			return fmt.Errorf("risk.weights.%s must not be negative (got %d)", name, v)
		}
	}
	return nil
}
