package redact

import (
	"fmt"
	"sort"
	"strings"
)

// TokenMap provides bidirectional mapping between sensitive values and tokens.
// It belongs to a single summarization job and is not goroutine-safe.
type TokenMap struct {
	JobID string

	forward  map[string]string // value → "<<TYPE_N>>"
	reverse  map[string]string // "<<TYPE_N>>" → value
	counters map[PatternType]int
}

// NewTokenMap creates an empty token map for a job.
func NewTokenMap(jobID string) *TokenMap {
	return &TokenMap{
		JobID:    jobID,
		forward:  make(map[string]string),
		reverse:  make(map[string]string),
		counters: make(map[PatternType]int),
	}
}

// Token returns the token for a value. The same value always maps to the
// same token within a map.
func (tm *TokenMap) Token(typ PatternType, value string) string {
	if tok, ok := tm.forward[value]; ok {
		return tok
	}
	tm.counters[typ]++
	tok := fmt.Sprintf("<<%s_%d>>", typ, tm.counters[typ])
	tm.forward[value] = tok
	tm.reverse[tok] = value
	return tok
}

// Resolve returns the original value for a token.
func (tm *TokenMap) Resolve(token string) (string, bool) {
	v, ok := tm.reverse[token]
	return v, ok
}

// Len returns the number of mappings.
func (tm *TokenMap) Len() int {
	return len(tm.forward)
}

// Values returns all sensitive values, longest first for greedy replacement.
func (tm *TokenMap) Values() []string {
	vals := make([]string, 0, len(tm.forward))
	for v := range tm.forward {
		vals = append(vals, v)
	}
	sort.Slice(vals, func(i, j int) bool {
		if len(vals[i]) != len(vals[j]) {
			return len(vals[i]) > len(vals[j])
		}
		return vals[i] < vals[j]
	})
	return vals
}

// Tokens returns all tokens, sorted.
func (tm *TokenMap) Tokens() []string {
	toks := make([]string, 0, len(tm.reverse))
	for t := range tm.reverse {
		toks = append(toks, t)
	}
	sort.Strings(toks)
	return toks
}

// Legend explains the tokens to the model. Empty when nothing was redacted.
func (tm *TokenMap) Legend() string {
	if len(tm.forward) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Personal and financial identifiers below are replaced with tokens like <<EMAIL_1>> or <<CARD_1>>.\n")
	b.WriteString("Refer to them only by token. Do not guess the underlying values.\n\n")
	b.WriteString("Tokens:\n")
	for _, tok := range tm.Tokens() {
		b.WriteString("  " + tok + "\n")
	}
	return b.String()
}
