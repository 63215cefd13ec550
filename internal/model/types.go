package model

// Decision is the terminal workflow outcome for a document.
type Decision string

const (
	Approve  Decision = "Approve"
	Flag     Decision = "Flag"
	Escalate Decision = "Escalate"
)

// Defaults applied to candidates that arrive without metadata.
const (
	DefaultPolicyID = "UNKNOWN"
	DefaultTitle    = "Untitled Policy"
	DefaultCategory = "General"
)

// PolicyCandidate is a policy proposed by the retrieval layer. The pipeline
// treats it as read-only input and re-validates its relevance.
type PolicyCandidate struct {
	PolicyID       string   `json:"policy_id" yaml:"policy_id"`
	Title          string   `json:"title" yaml:"title"`
	Category       string   `json:"category" yaml:"category"`
	Text           string   `json:"text" yaml:"text"`
	RelevanceScore *float64 `json:"relevance_score,omitempty" yaml:"relevance_score,omitempty"`
}

// Normalized returns a copy with empty identity fields replaced by defaults.
func (c PolicyCandidate) Normalized() PolicyCandidate {
	if c.PolicyID == "" {
		c.PolicyID = DefaultPolicyID
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.Category == "" {
		c.Category = DefaultCategory
	}
	if c.RelevanceScore != nil {
		v := *c.RelevanceScore
		c.RelevanceScore = &v
	}
	return c
}

// PolicyFinding is the matcher's verdict on one relevant candidate.
// PossibleViolation implies at least one note.
type PolicyFinding struct {
	PolicyID          string   `json:"policy_id"`
	Title             string   `json:"title"`
	Category          string   `json:"category"`
	RelevanceScore    *float64 `json:"relevance_score"`
	Notes             []string `json:"notes"`
	PossibleViolation bool     `json:"possible_violation"`
	KeywordHits       []string `json:"keyword_hits"`
	Warnings          []string `json:"warnings,omitempty"`
}

// ViolationEntry is the "policy_id: title" label used in analysis lists.
func (f PolicyFinding) ViolationEntry() string {
	return f.PolicyID + ": " + f.Title
}

// Clone returns a deep copy so callers cannot mutate shared slices.
func (f PolicyFinding) Clone() PolicyFinding {
	out := f
	out.Notes = append([]string{}, f.Notes...)
	out.KeywordHits = append([]string{}, f.KeywordHits...)
	if f.Warnings != nil {
		out.Warnings = append([]string{}, f.Warnings...)
	}
	if f.RelevanceScore != nil {
		v := *f.RelevanceScore
		out.RelevanceScore = &v
	}
	return out
}

// PolicyAnalysis aggregates findings. Violations and Warnings are derived
// from Findings and are authoritative; Summary is prose only.
type PolicyAnalysis struct {
	Summary    string          `json:"summary"`
	Findings   []PolicyFinding `json:"findings"`
	Violations []string        `json:"violations"`
	Warnings   []string        `json:"warnings"`
	UsedLLM    bool            `json:"used_llm"`
}

// HasViolations reports whether any finding was flagged as a possible violation.
func (a PolicyAnalysis) HasViolations() bool {
	return len(a.Violations) > 0
}

// RiskResult is the bounded risk score for a document.
type RiskResult struct {
	Score        int      `json:"score"`
	Explanation  string   `json:"explanation"`
	HighRiskHits int      `json:"high_risk_hits"`
	MatchedTerms []string `json:"matched_terms"`
}

// WorkflowResult is the classifier output.
type WorkflowResult struct {
	Decision  Decision `json:"decision"`
	Rationale string   `json:"rationale"`
}
