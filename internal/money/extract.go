// Package money finds currency-like amounts in free text.
package money

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// amountRe matches an optional "$", then either comma-grouped digits
// ("3,500") or a plain digit run ("1999"), then an optional fraction.
var amountRe = regexp.MustCompile(`\$?\b(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?\b`)

// ExtractAmounts returns every amount in text in order of appearance.
// Duplicates are kept. Tokens that fail to parse are dropped.
func ExtractAmounts(text string) []float64 {
	amounts := []float64{}
	for _, tok := range amountRe.FindAllString(text, -1) {
		cleaned := strings.ReplaceAll(strings.TrimPrefix(tok, "$"), ",", "")
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsInf(v, 0) {
			continue
		}
		amounts = append(amounts, v)
	}
	return amounts
}

// Max returns the largest amount. ok is false when amounts is empty:
// "no amounts" means the maximum is undefined, not zero.
func Max(amounts []float64) (float64, bool) {
	if len(amounts) == 0 {
		return 0, false
	}
	top := amounts[0]
	for _, a := range amounts[1:] {
		if a > top {
			top = a
		}
	}
	return top, true
}

var printer = message.NewPrinter(language.English)

// FormatUSD renders an amount for notes, e.g. 2000 → "$2,000", 12.5 → "$12.50".
func FormatUSD(v float64) string {
	whole := math.Trunc(v)
	if whole == v {
		return printer.Sprintf("$%d", int64(whole))
	}
	cents := int64(math.Round(math.Abs(v-whole) * 100))
	if cents == 100 {
		return FormatUSD(whole + math.Copysign(1, v))
	}
	return printer.Sprintf("$%d", int64(whole)) + "." + leftPad2(cents)
}

func leftPad2(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}
