package audit

import (
	"encoding/json"
	"fmt"
)

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Steps     int    `json:"steps"`
	Error     string `json:"error,omitempty"`
	ErrorStep int    `json:"error_step,omitempty"`
}

// Verify re-walks the chain. Returns Valid=true if it is intact, or details
// about the first broken link. ErrorStep is 1-based.
func Verify(steps []Step) VerifyResult {
	prev := GenesisHash
	for i, s := range steps {
		n := i + 1
		if s.Index != i {
			return VerifyResult{Error: fmt.Sprintf("index is %d, expected %d", s.Index, i), ErrorStep: n}
		}
		if !s.payloadMatchesKind() {
			return VerifyResult{Error: fmt.Sprintf("payload does not match step kind %q", s.Kind), ErrorStep: n}
		}
		if s.PrevHash != prev {
			if i == 0 {
				return VerifyResult{
					Error:     fmt.Sprintf("first step prev_hash is %q, expected genesis hash", s.PrevHash),
					ErrorStep: 1,
				}
			}
			return VerifyResult{
				Error:     fmt.Sprintf("hash mismatch: expected %s, got %s", prev, s.PrevHash),
				ErrorStep: n,
			}
		}

		hash, err := s.computeHash()
		if err != nil {
			return VerifyResult{Error: err.Error(), ErrorStep: n}
		}
		if hash != s.Hash {
			return VerifyResult{
				Error:     fmt.Sprintf("step hash mismatch: recorded %s, computed %s", s.Hash, hash),
				ErrorStep: n,
			}
		}
		prev = s.Hash
	}
	return VerifyResult{Valid: true, Steps: len(steps)}
}

// VerifyJSON decodes a JSON array of steps and verifies it.
func VerifyJSON(data []byte) VerifyResult {
	var steps []Step
	if err := json.Unmarshal(data, &steps); err != nil {
		return VerifyResult{Error: fmt.Sprintf("parse error: %v", err)}
	}
	return Verify(steps)
}
