// Package summarize produces an optional free-text compliance summary from a
// chat-completions model. The decision pipeline never depends on it: an
// error or empty answer means the deterministic summary is used instead.
package summarize

import (
	"context"
	"strings"

	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
)

// Summarizer returns a free-text summary of how a document relates to the
// candidate policies. An empty string means no summary is available.
type Summarizer interface {
	Summarize(ctx context.Context, document string, candidates []model.PolicyCandidate) (string, error)
}

// Func adapts an ordinary function to the Summarizer interface.
type Func func(ctx context.Context, document string, candidates []model.PolicyCandidate) (string, error)

// Summarize calls f.
func (f Func) Summarize(ctx context.Context, document string, candidates []model.PolicyCandidate) (string, error) {
	return f(ctx, document, candidates)
}

// SystemPrompt frames the model's role.
const SystemPrompt = "You are a compliance analyst."

// Instruction is appended after the document and policies.
const Instruction = "Summarize how the document aligns or conflicts with the policies. " +
	"Return 6-8 concise bullet points with top risks, approvals needed, and violations. " +
	"End with a one-line overall conclusion."

// FormatCandidates renders candidates as "ID - Title\nText" blocks separated
// by blank lines. Missing metadata is rendered with its defaults.
func FormatCandidates(candidates []model.PolicyCandidate) string {
	blocks := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = c.Normalized()
		blocks = append(blocks, c.PolicyID+" - "+c.Title+"\n"+c.Text)
	}
	return strings.Join(blocks, "\n\n")
}

// BuildPrompt assembles the user message.
func BuildPrompt(document string, candidates []model.PolicyCandidate) string {
	return "Document:\n" + document + "\n\nPolicies:\n" + FormatCandidates(candidates) + "\n\n" + Instruction
}
