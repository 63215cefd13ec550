package policydiff

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatText renders the diff result as human-readable text.
func FormatText(r *DiffResult) string {
	if !r.HasChanges {
		return fmt.Sprintf("Config diff: %s → %s\n\nNo changes detected.\n", r.OldPath, r.NewPath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Config diff: %s → %s\n", r.OldPath, r.NewPath)

	sections := []struct {
		title  string
		prefix string
	}{
		{"Workflow Thresholds", "workflow."},
		{"Risk Weights", "risk.weights."},
		{"Rule Limits", "policy.limits."},
	}
	for _, s := range sections {
		changes := filterChanges(r.Changes, s.prefix)
		if len(changes) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  %s:\n", s.title)
		for _, c := range changes {
			name := strings.TrimPrefix(c.Field, s.prefix)
			if c.Comment == "added" || c.Comment == "removed" {
				writeMember(&b, "    ", name, c)
				continue
			}
			fmt.Fprintf(&b, "    %-34s %s → %s", name+":", c.Old, c.New)
			if c.Comment != "" {
				fmt.Fprintf(&b, "  (%s)", c.Comment)
			}
			b.WriteString("\n")
		}
	}

	if len(r.RuleChanges) > 0 {
		b.WriteString("\n  Rules:\n")
		for _, rc := range r.RuleChanges {
			switch rc.Type {
			case "added":
				fmt.Fprintf(&b, "    + %s\n", rc.Rule)
			case "removed":
				fmt.Fprintf(&b, "    - %s\n", rc.Rule)
			case "changed":
				fmt.Fprintf(&b, "    ~ %s\n", rc.Rule)
			}
		}
	}

	lists := filterChanges(r.Changes, "risk.high_risk_terms", "policy.taxonomy.", "alerts")
	if len(lists) > 0 {
		b.WriteString("\n")
		for _, c := range lists {
			writeMember(&b, "  ", c.Field, c)
		}
	}

	return b.String()
}

func writeMember(b *strings.Builder, indent, name string, c Change) {
	switch c.Comment {
	case "added":
		fmt.Fprintf(b, "%s%s: + %s\n", indent, name, c.New)
	case "removed":
		fmt.Fprintf(b, "%s%s: - %s\n", indent, name, c.Old)
	}
}

// FormatJSON renders the diff result as JSON.
func FormatJSON(r *DiffResult) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diff result: %w", err)
	}
	return string(data), nil
}

func filterChanges(changes []Change, prefixes ...string) []Change {
	var out []Change
	for _, c := range changes {
		for _, p := range prefixes {
			if strings.HasPrefix(c.Field, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
