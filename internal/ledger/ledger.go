// ledger.go - Daily advisory spend accounting

package ledger

import (
	"context"
	"log"
	"time"
)

// nowFunc is swapped out by tests pinning the processing day.
var nowFunc = time.Now

// Ledger prices token usage and accumulates it against the current
// processing day. Recording happens after the user-facing response is
// already computed, so a failed write is logged and swallowed: usage may
// undercount ("at most once") but a call's cost is never counted twice.
type Ledger struct {
	store            UsageStore
	inputMicroPer1M  int64
	outputMicroPer1M int64
}

// NewLedger builds a ledger pricing input and output units at the given
// USD-per-1M-token rates. Output rates are typically several times the
// input rate.
func NewLedger(store UsageStore, inputUSDPer1M, outputUSDPer1M float64) *Ledger {
	return &Ledger{
		store:            store,
		inputMicroPer1M:  USDPer1MToMicroUSDPer1M(inputUSDPer1M),
		outputMicroPer1M: USDPer1MToMicroUSDPer1M(outputUSDPer1M),
	}
}

// RecordUsage prices the given unit counts, applies them to today's
// record and returns the cost incurred in USD. The store-level increment
// is atomic; two concurrent calls both land.
func (l *Ledger) RecordUsage(ctx context.Context, inputUnits, outputUnits int) float64 {
	cost := costMicroUSD(int64(inputUnits), l.inputMicroPer1M) +
		costMicroUSD(int64(outputUnits), l.outputMicroPer1M)

	day := DayKey(nowFunc())
	if err := l.store.AddUsage(ctx, day, cost, 1); err != nil {
		log.Printf("⚠️  usage ledger: recording %d micro-USD for %s failed: %v", cost, day, err)
	}
	return MicroUSDToUSD(cost)
}
