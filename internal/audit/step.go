package audit

import (
	"encoding/json"
	"fmt"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
)

// Kind tags which pipeline stage produced a step.
type Kind string

const (
	KindPolicy   Kind = "policy"
	KindRisk     Kind = "risk"
	KindWorkflow Kind = "workflow"
)

// PolicyRecord is the policy stage output. UsedLLM is true only when the
// summary came from a non-empty summarizer response. FindingsDigest is
// DigestFindings over the findings shipped alongside the trail.
type PolicyRecord struct {
	UsedLLM        bool   `json:"used_llm"`
	Summary        string `json:"summary"`
	FindingsDigest string `json:"findings_digest"`
}

// RiskRecord is the risk stage output.
type RiskRecord struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// WorkflowRecord is the workflow stage output.
type WorkflowRecord struct {
	Decision  model.Decision `json:"decision"`
	Rationale string         `json:"rationale"`
}

// Step is one record in the trail. Exactly one payload is set, matching Kind.
// All fields are structs (no map[string]any) so json.Marshal output is
// deterministic and hashes are reproducible.
type Step struct {
	Index    int             `json:"index"`
	Kind     Kind            `json:"step"`
	Policy   *PolicyRecord   `json:"policy,omitempty"`
	Risk     *RiskRecord     `json:"risk,omitempty"`
	Workflow *WorkflowRecord `json:"workflow,omitempty"`
	PrevHash string          `json:"prev_hash"`
	Hash     string          `json:"hash"`
}

// computeHash hashes the step's JSON encoding with Hash left empty.
func (s Step) computeHash() (string, error) {
	s.Hash = ""
	line, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("audit: marshal step: %w", err)
	}
	return HashLine(line), nil
}

// DigestFindings returns "sha256:<hex>" of the findings' JSON encoding.
func DigestFindings(findings []model.PolicyFinding) (string, error) {
	data, err := json.Marshal(findings)
	if err != nil {
		return "", fmt.Errorf("audit: marshal findings: %w", err)
	}
	return HashLine(data), nil
}

func (s Step) clone() Step {
	out := s
	if s.Policy != nil {
		p := *s.Policy
		out.Policy = &p
	}
	if s.Risk != nil {
		r := *s.Risk
		out.Risk = &r
	}
	if s.Workflow != nil {
		w := *s.Workflow
		out.Workflow = &w
	}
	return out
}

func (s Step) payloadMatchesKind() bool {
	set := 0
	for _, p := range []bool{s.Policy != nil, s.Risk != nil, s.Workflow != nil} {
		if p {
			set++
		}
	}
	if set != 1 {
		return false
	}
	switch s.Kind {
	case KindPolicy:
		return s.Policy != nil
	case KindRisk:
		return s.Risk != nil
	case KindWorkflow:
		return s.Workflow != nil
	}
	return false
}
