package audit

import (
	"strings"
	"testing"
)

func TestFormatTrail(t *testing.T) {
	out := FormatTrail(fullTrail(t).Steps())

	for _, want := range []string{
		"Audit trail:",
		"1. policy    (llm=no) Found 1 relevant policies.",
		"2. risk      score=25",
		"3. workflow  Flag: Decision based on risk score 25.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTrailEmpty(t *testing.T) {
	if got := FormatTrail(nil); !strings.Contains(got, "no steps") {
		t.Errorf("unexpected output %q", got)
	}
}

func TestFormatTrailMultilineSummary(t *testing.T) {
	tr := NewTrail()
	tr.AppendPolicy(PolicyRecord{UsedLLM: true, Summary: "- bullet one\n- bullet two"})

	out := FormatTrail(tr.Steps())
	if !strings.Contains(out, "(llm=yes) - bullet one ...") {
		t.Errorf("expected first summary line only:\n%s", out)
	}
}
