// heuristics.go - Ticket price and game name selection heuristics

package flare

import (
	"regexp"
	"strings"
)

// UnknownGameName is the sentinel returned when no title line qualifies.
const UnknownGameName = "Unknown Game"

// titleLineScanLimit bounds how many leading non-empty lines are examined
// for the game title. Titles are printed near the top of the sheet.
const titleLineScanLimit = 8

var (
	trademarkGlyphRe = regexp.MustCompile(`[™®©]`)
	titleLineRe      = regexp.MustCompile(`^[A-Z0-9 &'\-]+$`)
	innerSpaceRe     = regexp.MustCompile(`\s+`)
)

// TicketPrice selects the most plausible per-ticket price: the minimum of
// the price-shaped amounts. Ticket prices are small corner-printed values
// while prize amounts dominate the broad list, so "smallest price-shaped
// amount" is the working heuristic, not a guarantee. When several distinct
// small values exist (e.g. a misread amount next to the genuine price)
// there is no disambiguation; the minimum wins. Returns ok=false when no
// price-shaped token exists.
func TicketPrice(priceTokens []AmountToken) (price float64, ok bool) {
	if len(priceTokens) == 0 {
		return 0, false
	}
	price = priceTokens[0].Value
	for _, t := range priceTokens[1:] {
		if t.Value < price {
			price = t.Value
		}
	}
	return price, true
}

// GameName scans the first titleLineScanLimit non-empty lines and accepts
// the first one that looks like a printed game title: uppercase letters,
// digits, spaces, ampersands, apostrophes and hyphens only, at least 5
// characters, not starting with a dollar sign. Trademark glyphs are
// stripped and internal whitespace is collapsed before matching. Single
// pass, first match; candidates are never scored against each other.
func GameName(text string) string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > titleLineScanLimit {
			break
		}

		candidate := trademarkGlyphRe.ReplaceAllString(line, "")
		candidate = strings.TrimSpace(innerSpaceRe.ReplaceAllString(candidate, " "))

		if len(candidate) < 5 || strings.HasPrefix(candidate, "$") {
			continue
		}
		if titleLineRe.MatchString(candidate) {
			return candidate
		}
	}
	return UnknownGameName
}
