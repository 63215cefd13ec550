// Package textnorm prepares document text for case-insensitive term matching.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns text in NFKC form with Unicode case folding applied, so that
// "UNENCRYPTED", "Unencrypted" and full-width variants compare equal.
// A Caser is stateful, so one is created per call.
func Fold(text string) string {
	return cases.Fold().String(norm.NFKC.String(text))
}

// MatchTerms returns the terms (already folded) found in folded text, in
// term order, each at most once.
func MatchTerms(folded string, terms []string) []string {
	matched := []string{}
	seen := make(map[string]bool, len(terms))
	for _, term := range terms {
		if term == "" || seen[term] {
			continue
		}
		if strings.Contains(folded, term) {
			seen[term] = true
			matched = append(matched, term)
		}
	}
	return matched
}

// FoldAll folds every term in the list.
func FoldAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, Fold(t))
	}
	return out
}
