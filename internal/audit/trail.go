package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenesisHash is the prev_hash for the first step of every trail.
const GenesisHash = "sha256:0000000000000000000000000000000000000000000000000000000000000000"

// Trail is an append-only, in-memory audit trail with SHA-256 hash chaining.
// Each step carries its own hash, taken over its JSON encoding with the hash
// field empty, and the previous step's hash as prev_hash. Verify recomputes
// both, so an edit to any step, including the last, is detectable, as is a
// reorder or removal.
//
// A Trail belongs to a single run and is not safe for concurrent use.
type Trail struct {
	steps    []Step
	prevHash string
}

// NewTrail returns an empty trail anchored at GenesisHash.
func NewTrail() *Trail {
	return &Trail{prevHash: GenesisHash}
}

// Append records a step. It sets Index and PrevHash; the payload must match Kind.
func (t *Trail) Append(s Step) error {
	if !s.payloadMatchesKind() {
		return fmt.Errorf("audit: step %q must carry exactly its own payload", s.Kind)
	}
	s = s.clone()
	s.Index = len(t.steps)
	s.PrevHash = t.prevHash

	hash, err := s.computeHash()
	if err != nil {
		return err
	}
	s.Hash = hash

	t.steps = append(t.steps, s)
	t.prevHash = hash
	return nil
}

// AppendPolicy records the policy stage.
func (t *Trail) AppendPolicy(rec PolicyRecord) error {
	return t.Append(Step{Kind: KindPolicy, Policy: &rec})
}

// AppendRisk records the risk stage.
func (t *Trail) AppendRisk(rec RiskRecord) error {
	return t.Append(Step{Kind: KindRisk, Risk: &rec})
}

// AppendWorkflow records the workflow stage.
func (t *Trail) AppendWorkflow(rec WorkflowRecord) error {
	return t.Append(Step{Kind: KindWorkflow, Workflow: &rec})
}

// Steps returns a deep copy of the recorded steps in order.
func (t *Trail) Steps() []Step {
	out := make([]Step, len(t.steps))
	for i, s := range t.steps {
		out[i] = s.clone()
	}
	return out
}

// Len returns the number of recorded steps.
func (t *Trail) Len() int {
	return len(t.steps)
}

// HashLine returns "sha256:<hex>" of the given bytes.
func HashLine(line []byte) string {
	h := sha256.Sum256(line)
	return "sha256:" + hex.EncodeToString(h[:])
}
