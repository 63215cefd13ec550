package decision

import (
	"encoding/json"
	"fmt"

	"github.com/Muqadas1234/compliance-policy-ai/internal/audit"
)

// VerifyBundle checks that a bundle's audit trail is an intact hash chain of
// exactly one policy, risk and workflow step, that the findings match the
// policy step's digest, and that the bundle's top-level decision, score and
// explanation agree with the trail.
func VerifyBundle(b *Bundle) audit.VerifyResult {
	res := audit.Verify(b.AuditTrail)
	if !res.Valid {
		return res
	}

	want := []audit.Kind{audit.KindPolicy, audit.KindRisk, audit.KindWorkflow}
	if len(b.AuditTrail) != len(want) {
		return audit.VerifyResult{Error: fmt.Sprintf("expected %d steps, got %d", len(want), len(b.AuditTrail))}
	}
	for i, k := range want {
		if b.AuditTrail[i].Kind != k {
			return audit.VerifyResult{Error: fmt.Sprintf("step %d is %q, expected %q", i+1, b.AuditTrail[i].Kind, k), ErrorStep: i + 1}
		}
	}

	digest, err := audit.DigestFindings(b.PolicyFindings)
	if err != nil {
		return audit.VerifyResult{Error: err.Error(), ErrorStep: 1}
	}
	if digest != b.AuditTrail[0].Policy.FindingsDigest {
		return audit.VerifyResult{Error: "policy findings do not match policy step digest", ErrorStep: 1}
	}

	r, w := b.AuditTrail[1].Risk, b.AuditTrail[2].Workflow
	switch {
	case r.Score != b.Score:
		return audit.VerifyResult{Error: fmt.Sprintf("bundle score %d does not match risk step %d", b.Score, r.Score), ErrorStep: 2}
	case r.Explanation != b.Explanation:
		return audit.VerifyResult{Error: "bundle explanation does not match risk step", ErrorStep: 2}
	case w.Decision != b.Decision:
		return audit.VerifyResult{Error: fmt.Sprintf("bundle decision %s does not match workflow step %s", b.Decision, w.Decision), ErrorStep: 3}
	}
	return res
}

// VerifyBundleJSON decodes a bundle and verifies it.
func VerifyBundleJSON(data []byte) audit.VerifyResult {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return audit.VerifyResult{Error: fmt.Sprintf("parse error: %v", err)}
	}
	return VerifyBundle(&b)
}
