package redact

import "strings"

// Redactor applies built-in and configured patterns. It is immutable after
// New and safe for concurrent use; per-job state lives in the TokenMap.
type Redactor struct {
	extra    []ExtraPattern
	safe     map[string]bool
	literals []string
}

// New compiles cfg. A nil cfg yields a Redactor with built-in patterns only.
func New(cfg *Config) (*Redactor, error) {
	extra, err := CompilePatterns(cfg)
	if err != nil {
		return nil, err
	}
	r := &Redactor{extra: extra, safe: map[string]bool{}}
	if cfg != nil {
		for _, v := range cfg.SafeValues {
			r.safe[v] = true
		}
		r.literals = append(r.literals, cfg.Literals...)
	}
	return r, nil
}

// Scan returns the matches this Redactor would tokenize.
func (r *Redactor) Scan(text string) []Match {
	return scan(text, r.safe, r.extra, r.literals)
}

// Redact allocates tokens in tm for every match and returns text with the
// values replaced. Longer values are replaced first so a value that contains
// another is never partially substituted.
func (r *Redactor) Redact(text string, tm *TokenMap) string {
	matches := r.Scan(text)
	if len(matches) == 0 {
		return text
	}
	for _, m := range matches {
		tm.Token(m.Type, m.Value)
	}

	result := text
	for _, val := range tm.Values() {
		result = strings.ReplaceAll(result, val, tm.forward[val])
	}
	return result
}

// Redact is Redactor.Redact with built-in patterns only.
func Redact(text string, tm *TokenMap) string {
	r, _ := New(nil)
	return r.Redact(text, tm)
}

// Detoken replaces all tokens in text with their original values.
func Detoken(text string, tm *TokenMap) string {
	result := text
	for _, tok := range tm.Tokens() {
		val, _ := tm.Resolve(tok)
		result = strings.ReplaceAll(result, tok, val)
	}
	return result
}

// CheckLeaks returns the redacted values that appear literally in a model
// response. Any leak means the response must be rejected.
func CheckLeaks(response string, tm *TokenMap) []string {
	var leaks []string
	for _, val := range tm.Values() {
		if strings.Contains(response, val) {
			leaks = append(leaks, val)
		}
	}
	return leaks
}
