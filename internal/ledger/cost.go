// cost.go - Micro-USD cost arithmetic for token usage

package ledger

import "math"

const tokensPerMillion = int64(1_000_000)

// USDPer1MToMicroUSDPer1M converts a USD-per-1M-tokens rate into
// micro-USD so that all ledger arithmetic stays in exact integers.
func USDPer1MToMicroUSDPer1M(v float64) int64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v * 1_000_000))
}

// USDToMicroUSD converts a dollar amount to micro-USD.
func USDToMicroUSD(v float64) int64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v * 1_000_000))
}

// MicroUSDToUSD converts micro-USD back to dollars for display.
func MicroUSDToUSD(v int64) float64 {
	if v == 0 {
		return 0
	}
	return float64(v) / 1_000_000
}

// costMicroUSD prices a token count at a micro-USD-per-1M rate,
// rounding to the nearest micro-USD at the end.
func costMicroUSD(tokens int64, microUSDPer1M int64) int64 {
	if tokens <= 0 || microUSDPer1M <= 0 {
		return 0
	}
	return (tokens*microUSDPer1M + tokensPerMillion/2) / tokensPerMillion
}
