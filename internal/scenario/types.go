package scenario

import "github.com/Muqadas1234/compliance-policy-ai/internal/model"

// Expect is the assertion for one case. Score bounds are inclusive and
// optional; Violations, when set, must equal the violated policy ids in
// finding order.
type Expect struct {
	Decision   model.Decision `yaml:"decision"`
	MinScore   *int           `yaml:"min_score,omitempty"`
	MaxScore   *int           `yaml:"max_score,omitempty"`
	Violations []string       `yaml:"violations,omitempty"`
}

// Case is one document evaluated against its candidate policies.
type Case struct {
	Name       string `yaml:"name,omitempty"`
	Document   string `yaml:"document"`
	Candidates []any  `yaml:"candidates"`
	Expect     Expect `yaml:"expect"`
}

// Scenario is a named collection of pipeline regression cases.
type Scenario struct {
	Name  string `yaml:"name"`
	Cases []Case `yaml:"cases"`
}

// CaseResult is the outcome of evaluating one test case.
type CaseResult struct {
	Index    int            `json:"index"`
	Name     string         `json:"name,omitempty"`
	Passed   bool           `json:"passed"`
	Expected model.Decision `json:"expected"`
	Actual   model.Decision `json:"actual,omitempty"`
	Score    int            `json:"score"`
	Reason   string         `json:"reason,omitempty"`
}

// RunResult is the outcome of running all cases in one scenario file.
type RunResult struct {
	File   string       `json:"file"`
	Name   string       `json:"name"`
	Total  int          `json:"total"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Cases  []CaseResult `json:"cases"`
}
