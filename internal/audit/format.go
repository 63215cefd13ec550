package audit

import (
	"fmt"
	"strings"
)

const separator = "──────────────────────────────────────────────────────────────────"

// FormatTrail renders steps as a human-readable timeline.
func FormatTrail(steps []Step) string {
	if len(steps) == 0 {
		return "Audit trail: no steps recorded.\n"
	}

	var b strings.Builder
	b.WriteString("Audit trail:\n")
	b.WriteString(separator + "\n")
	for _, s := range steps {
		b.WriteString(fmt.Sprintf("%d. %-9s %s\n", s.Index+1, s.Kind, stepDetail(s)))
	}
	b.WriteString(separator + "\n")
	return b.String()
}

func stepDetail(s Step) string {
	switch {
	case s.Policy != nil:
		llm := "no"
		if s.Policy.UsedLLM {
			llm = "yes"
		}
		return fmt.Sprintf("(llm=%s) %s", llm, truncate(firstLine(s.Policy.Summary), 100))
	case s.Risk != nil:
		return fmt.Sprintf("score=%d", s.Risk.Score)
	case s.Workflow != nil:
		return fmt.Sprintf("%s: %s", s.Workflow.Decision, s.Workflow.Rationale)
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
