// Package redact masks personal and financial identifiers in document text
// before it is sent to a remote summarizer, and restores them afterwards.
package redact

import (
	"regexp"
	"sort"
	"strings"
)

// PatternType identifies the category of sensitive data.
type PatternType string

const (
	PatternEmail PatternType = "EMAIL"
	PatternCard  PatternType = "CARD"
	PatternIBAN  PatternType = "IBAN"
	PatternSSN   PatternType = "SSN"
	PatternPhone PatternType = "PHONE"
	PatternIP    PatternType = "IP"
	PatternCred  PatternType = "CRED"
	PatternLit   PatternType = "LITERAL"
)

// Match is a single occurrence of sensitive data in text.
type Match struct {
	Type  PatternType
	Value string
	Start int
	End   int
}

var (
	emailRe = regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`)

	// 13-19 digits, optionally grouped by single spaces or dashes. Luhn-checked.
	cardRe = regexp.MustCompile(`\b\d(?:[ \-]?\d){12,18}\b`)

	// Country code, check digits, then 11-30 alphanumerics in optional groups of four.
	ibanRe = regexp.MustCompile(`\b[A-Z]{2}\d{2}(?: ?[A-Z0-9]{4}){2,7}(?: ?[A-Z0-9]{1,4})?\b`)

	ssnRe = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	// North American "(555) 123-4567" / "555.123.4567" or "+44 20 7946 0958".
	phoneRe = regexp.MustCompile(`(?:\(\d{3}\)\s?|\b\d{3}[\-.])\d{3}[\-.]\d{4}\b|\+\d{1,3}(?:[ \-]\d{2,4}){2,4}\b`)

	ipv4Re = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)

	credKVRe = regexp.MustCompile(`(?i)(?:password|passwd|secret|token|api_key|apikey|pin)[ \t]*[=:][ \t]*\S+`)
)

// safeIPs are addresses that identify nobody.
var safeIPs = map[string]bool{
	"127.0.0.1":       true,
	"0.0.0.0":         true,
	"255.255.255.255": true,
}

// Scan finds built-in sensitive patterns and returns deduplicated matches
// sorted by position (earliest first).
func Scan(text string) []Match {
	return scan(text, nil, nil, nil)
}

func scan(text string, safe map[string]bool, extra []ExtraPattern, literals []string) []Match {
	seen := make(map[string]bool)
	var matches []Match

	add := func(typ PatternType, value string, start int) {
		value = strings.TrimRight(value, ".,;:\"'`)}]")
		if value == "" || seen[value] || safe[value] {
			return
		}
		seen[value] = true
		matches = append(matches, Match{Type: typ, Value: value, Start: start, End: start + len(value)})
	}
	each := func(re *regexp.Regexp, typ PatternType, keep func(string) bool) {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			v := text[loc[0]:loc[1]]
			if keep == nil || keep(v) {
				add(typ, v, loc[0])
			}
		}
	}

	// Literals first so operator-named values keep their own token type.
	for _, lit := range literals {
		if lit == "" {
			continue
		}
		if i := strings.Index(text, lit); i >= 0 {
			add(PatternLit, lit, i)
		}
	}

	each(emailRe, PatternEmail, nil)
	each(credKVRe, PatternCred, nil)
	each(ssnRe, PatternSSN, nil)
	each(ibanRe, PatternIBAN, nil)
	each(cardRe, PatternCard, luhnValid)
	each(phoneRe, PatternPhone, nil)
	each(ipv4Re, PatternIP, func(v string) bool { return !safeIPs[v] })

	for _, p := range extra {
		each(p.Regex, p.TokenPrefix, nil)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// luhnValid reports whether the digits in s pass the Luhn checksum.
func luhnValid(s string) bool {
	sum, n := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int(c - '0')
		if n%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		n++
	}
	return n >= 13 && sum%10 == 0
}
