// tabulate.go - Prize histogram construction

package flare

// TabulatePrizes removes every occurrence of the detected ticket price
// from the broad amount list (the price is assumed never to coincide with
// a real prize value) and aggregates the remainder into a value -> count
// histogram. The total is the count of all remaining tokens, used
// downstream as the starting ticket count for the sheet. Comparison is
// exact numeric equality after normalization; a non-integral value simply
// becomes its own key, never rounded.
func TabulatePrizes(broad []AmountToken, price float64, havePrice bool) (histogram map[float64]int, total int) {
	histogram = make(map[float64]int)
	for _, t := range broad {
		if havePrice && t.Value == price {
			continue
		}
		histogram[t.Value]++
		total++
	}
	return histogram, total
}
