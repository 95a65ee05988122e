// parser.go - Assembles the flare sheet parse result

package flare

import (
	"sort"
	"strconv"
)

// DefaultTicketPrice is the fallback used when no price-shaped token exists.
const DefaultTicketPrice = 1

// ParsedFlareSheet is the structured record recovered from one flare
// sheet photo. TotalPrizeTokens counts every non-price amount token and
// is interpreted downstream as the sheet's starting ticket count - a
// business assumption of this application, not a general OCR property.
// Invariant: the histogram counts always sum to TotalPrizeTokens.
type ParsedFlareSheet struct {
	GameName         string
	PricePerTicket   float64
	PrizeHistogram   map[float64]int
	TotalPrizeTokens int
	IsPreview        bool
}

// Parse turns raw recognized text into a ParsedFlareSheet. Heuristic
// misses are not errors: a missing title yields the UnknownGameName
// sentinel, a missing price yields DefaultTicketPrice, and a text with no
// currency substrings yields an empty histogram. Parse never fails.
func Parse(text string, preview bool) ParsedFlareSheet {
	broad, priceShaped := ExtractAmounts(text)

	price, havePrice := TicketPrice(priceShaped)
	histogram, total := TabulatePrizes(broad, price, havePrice)

	if !havePrice {
		price = DefaultTicketPrice
	}

	return ParsedFlareSheet{
		GameName:         GameName(text),
		PricePerTicket:   price,
		PrizeHistogram:   histogram,
		TotalPrizeTokens: total,
		IsPreview:        preview,
	}
}

// WinningTickets flattens the histogram into a value-per-token list,
// sorted descending, the shape the box record stores.
func (p ParsedFlareSheet) WinningTickets() []float64 {
	tickets := make([]float64, 0, p.TotalPrizeTokens)
	for value, count := range p.PrizeHistogram {
		for i := 0; i < count; i++ {
			tickets = append(tickets, value)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(tickets)))
	return tickets
}

// PrizeCounts returns the histogram keyed by the amount's decimal string,
// the representation used for JSON responses and store writes (JSON
// objects cannot carry numeric keys).
func (p ParsedFlareSheet) PrizeCounts() map[string]int {
	counts := make(map[string]int, len(p.PrizeHistogram))
	for value, count := range p.PrizeHistogram {
		counts[strconv.FormatFloat(value, 'f', -1, 64)] = count
	}
	return counts
}
