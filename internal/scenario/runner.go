package scenario

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Muqadas1234/compliance-policy-ai/internal/decision"
)

// Run evaluates all cases in a scenario with the given engine.
// Cases are independent; a pipeline error fails only its own case.
func Run(ctx context.Context, s *Scenario, engine *decision.Engine) *RunResult {
	result := &RunResult{
		Name:  s.Name,
		Total: len(s.Cases),
	}

	for i, c := range s.Cases {
		cr := CaseResult{
			Index:    i + 1,
			Name:     c.Name,
			Expected: c.Expect.Decision,
		}

		bundle, err := engine.RunMaps(ctx, c.Document, c.Candidates)
		if err != nil {
			cr.Reason = err.Error()
		} else {
			cr.Actual = bundle.Decision
			cr.Score = bundle.Score
			cr.Reason = check(c.Expect, bundle)
			cr.Passed = cr.Reason == ""
		}

		if cr.Passed {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Cases = append(result.Cases, cr)
	}

	return result
}

// check returns "" when the bundle satisfies every assertion, otherwise the
// first mismatch.
func check(want Expect, b *decision.Bundle) string {
	if want.Decision != "" && b.Decision != want.Decision {
		return fmt.Sprintf("decision %s, expected %s", b.Decision, want.Decision)
	}
	if want.MinScore != nil && b.Score < *want.MinScore {
		return fmt.Sprintf("score %d below min_score %d", b.Score, *want.MinScore)
	}
	if want.MaxScore != nil && b.Score > *want.MaxScore {
		return fmt.Sprintf("score %d above max_score %d", b.Score, *want.MaxScore)
	}
	if want.Violations != nil {
		var got []string
		for _, f := range b.PolicyFindings {
			if f.PossibleViolation {
				got = append(got, f.PolicyID)
			}
		}
		if !slices.Equal(got, want.Violations) {
			return fmt.Sprintf("violations %v, expected %v", got, want.Violations)
		}
	}
	return ""
}

// Load parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return &s, nil
}

// LoadAndRun loads a scenario YAML file and runs it.
func LoadAndRun(ctx context.Context, path string, engine *decision.Engine) (*RunResult, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}

	result := Run(ctx, s, engine)
	result.File = path
	return result, nil
}

// Expand resolves glob patterns to a sorted, de-duplicated file list.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no scenario files match %v", patterns)
	}
	sort.Strings(files)
	return files, nil
}
