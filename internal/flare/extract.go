// extract.go - Currency amount extraction from raw OCR text

package flare

import (
	"regexp"
	"strconv"
	"strings"
)

// AmountClass identifies which pattern class produced an amount token.
type AmountClass int

const (
	// ClassBroad matches any dollar amount, including comma-grouped
	// thousands. Prize values on flare sheets fall in this class.
	ClassBroad AmountClass = iota
	// ClassPrice matches the looser price-shaped pattern used for the
	// small per-ticket prices printed in sheet corners.
	ClassPrice
)

// AmountToken is one extracted dollar amount with its provenance.
// Multiple tokens may share the same numeric value.
type AmountToken struct {
	Value float64
	Raw   string
	Class AmountClass
}

// Comma-grouped amounts must be matched before plain digit runs so that
// "$1,200" does not split into 1 and 200.
var (
	broadAmountRe = regexp.MustCompile(`\$(\d{1,3}(?:,\d{3})+|\d+)`)
	priceAmountRe = regexp.MustCompile(`\$\s?(\d+)`)
)

// ExtractAmounts pulls both token classes out of recognized text.
// Only the dollar-sign, comma-grouped convention is supported; other
// locales are a stated limitation of the sheet format, not handled here.
// Pure function: no side effects, deterministic over its input.
func ExtractAmounts(text string) (broad, price []AmountToken) {
	for _, m := range broadAmountRe.FindAllString(text, -1) {
		if v, ok := normalizeAmount(m); ok {
			broad = append(broad, AmountToken{Value: v, Raw: m, Class: ClassBroad})
		}
	}
	for _, m := range priceAmountRe.FindAllString(text, -1) {
		if v, ok := normalizeAmount(m); ok {
			price = append(price, AmountToken{Value: v, Raw: m, Class: ClassPrice})
		}
	}
	return broad, price
}

// normalizeAmount strips the currency symbol and thousands separators
// and parses the remainder as a base-10 number.
func normalizeAmount(raw string) (float64, bool) {
	s := strings.TrimPrefix(raw, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
