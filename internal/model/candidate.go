package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CandidateFromMap creates a PolicyCandidate from a raw map with defensive
// coercion. Missing or non-string metadata falls back to defaults and a
// non-numeric score is treated as absent.
func CandidateFromMap(m map[string]any) PolicyCandidate {
	c := PolicyCandidate{
		PolicyID: stringOr(m["policy_id"], DefaultPolicyID),
		Title:    stringOr(m["title"], DefaultTitle),
		Category: stringOr(m["category"], DefaultCategory),
		Text:     stringOr(m["text"], ""),
	}

	// "score" is what the retrieval index historically returned.
	for _, key := range []string{"relevance_score", "score"} {
		if f, ok := toFloat(m[key]); ok {
			c.RelevanceScore = &f
			break
		}
	}
	return c
}

// CandidatesFromAny converts a decoded JSON/YAML value into candidates.
// It fails only on structural problems: the value is not a list, or an
// element is not an object.
func CandidatesFromAny(v any) ([]PolicyCandidate, error) {
	if v == nil {
		return []PolicyCandidate{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("candidates must be a list, got %T", v)
	}

	out := make([]PolicyCandidate, 0, len(items))
	for i, item := range items {
		m, ok := asStringMap(item)
		if !ok {
			return nil, fmt.Errorf("candidate %d must be an object, got %T", i, item)
		}
		out = append(out, CandidateFromMap(m))
	}
	return out, nil
}

// LoadCandidates reads a candidate list from a YAML or JSON file. The file may
// hold a bare list or an object with a "candidates" (or "policies") key.
func LoadCandidates(path string) ([]PolicyCandidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}

	var raw any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse candidates %s: %w", path, err)
	}

	if m, ok := asStringMap(raw); ok {
		list, ok := m["candidates"]
		if !ok {
			list, ok = m["policies"]
		}
		if !ok {
			return nil, fmt.Errorf("%s: expected a list or a \"candidates\" key", path)
		}
		raw = list
	}

	candidates, err := CandidatesFromAny(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return candidates, nil
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asStringMap accepts both JSON objects and YAML mappings.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}
