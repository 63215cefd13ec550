package mcp

import (
	"context"
	"fmt"
	"sort"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Muqadas1234/compliance-policy-ai/internal/audit"
	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
	"github.com/Muqadas1234/compliance-policy-ai/internal/model"
)

// --- Input/Output types ---

// CandidateInput is one candidate policy. Missing fields take defaults.
type CandidateInput struct {
	PolicyID       string   `json:"policy_id,omitempty" jsonschema:"policy identifier such as FIN-001"`
	Title          string   `json:"title,omitempty" jsonschema:"policy title"`
	Category       string   `json:"category,omitempty" jsonschema:"policy category"`
	Text           string   `json:"text,omitempty" jsonschema:"policy clause text"`
	RelevanceScore *float64 `json:"relevance_score,omitempty" jsonschema:"retrieval similarity score"`
}

// EvaluateInput defines parameters for the compliance_evaluate tool.
type EvaluateInput struct {
	Document   string           `json:"document" jsonschema:"document text to evaluate"`
	Candidates []CandidateInput `json:"candidates,omitempty" jsonschema:"candidate policies retrieved for the document"`
}

// EvaluateOutput is the decision bundle.
type EvaluateOutput struct {
	Decision       string                `json:"decision"`
	Score          int                   `json:"score"`
	Explanation    string                `json:"explanation"`
	AuditTrail     []audit.Step          `json:"audit_trail"`
	PolicyFindings []model.PolicyFinding `json:"policy_findings"`
}

// TaxonomyInput defines parameters for the compliance_taxonomy tool.
type TaxonomyInput struct {
	PolicyID string `json:"policy_id,omitempty" jsonschema:"policy id to look up, omit to list all"`
}

// TaxonomyEntry describes one known policy id.
type TaxonomyEntry struct {
	PolicyID   string   `json:"policy_id"`
	Keywords   []string `json:"keywords"`
	RuleFamily string   `json:"rule_family,omitempty"`
}

// TaxonomyOutput lists taxonomy entries sorted by policy id.
type TaxonomyOutput struct {
	Policies []TaxonomyEntry `json:"policies"`
}

// VerifyInput defines parameters for the compliance_verify tool.
type VerifyInput struct {
	Bundle string `json:"bundle" jsonschema:"decision bundle JSON as returned by compliance_evaluate"`
}

// VerifyOutput is the verification result.
type VerifyOutput struct {
	Valid     bool   `json:"valid"`
	Steps     int    `json:"steps"`
	Error     string `json:"error,omitempty"`
	ErrorStep int    `json:"error_step,omitempty"`
}

// --- Handlers ---

func (s *Server) handleEvaluate(ctx context.Context, req *mcpsdk.CallToolRequest, input EvaluateInput) (*mcpsdk.CallToolResult, EvaluateOutput, error) {
	candidates := make([]model.PolicyCandidate, len(input.Candidates))
	for i, c := range input.Candidates {
		candidates[i] = model.PolicyCandidate{
			PolicyID:       c.PolicyID,
			Title:          c.Title,
			Category:       c.Category,
			Text:           c.Text,
			RelevanceScore: c.RelevanceScore,
		}
	}

	bundle, err := s.engine.Run(ctx, input.Document, candidates)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}

	s.logger.Debug("mcp evaluate", "decision", bundle.Decision, "score", bundle.Score)
	return nil, EvaluateOutput{
		Decision:       string(bundle.Decision),
		Score:          bundle.Score,
		Explanation:    bundle.Explanation,
		AuditTrail:     bundle.AuditTrail,
		PolicyFindings: bundle.PolicyFindings,
	}, nil
}

func (s *Server) handleTaxonomy(ctx context.Context, req *mcpsdk.CallToolRequest, input TaxonomyInput) (*mcpsdk.CallToolResult, TaxonomyOutput, error) {
	cfg, _ := s.engine.Config()
	pc := &cfg.Policy

	if input.PolicyID != "" {
		keywords := pc.KeywordsFor(input.PolicyID)
		family := pc.FamilyFor(input.PolicyID)
		if keywords == nil && family == "" {
			return nil, TaxonomyOutput{}, fmt.Errorf("unknown policy id %q", input.PolicyID)
		}
		return nil, TaxonomyOutput{Policies: []TaxonomyEntry{entry(input.PolicyID, keywords, family)}}, nil
	}

	seen := make(map[string]bool)
	var ids []string
	for id := range pc.Taxonomy {
		seen[id] = true
		ids = append(ids, id)
	}
	for id := range pc.Rules {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := TaxonomyOutput{Policies: make([]TaxonomyEntry, 0, len(ids))}
	for _, id := range ids {
		out.Policies = append(out.Policies, entry(id, pc.KeywordsFor(id), pc.FamilyFor(id)))
	}
	return nil, out, nil
}

func (s *Server) handleVerify(ctx context.Context, req *mcpsdk.CallToolRequest, input VerifyInput) (*mcpsdk.CallToolResult, VerifyOutput, error) {
	res := decision.VerifyBundleJSON([]byte(input.Bundle))
	out := VerifyOutput{
		Valid:     res.Valid,
		Steps:     res.Steps,
		Error:     res.Error,
		ErrorStep: res.ErrorStep,
	}
	if !res.Valid {
		return &mcpsdk.CallToolResult{IsError: true}, out, nil
	}
	return nil, out, nil
}

func entry(id string, keywords []string, family string) TaxonomyEntry {
	return TaxonomyEntry{
		PolicyID:   id,
		Keywords:   append([]string{}, keywords...),
		RuleFamily: family,
	}
}
