// store.go - Storage contract for the daily usage ledger

package ledger

import (
	"context"
	"time"
)

// UsageStore is the storage-level counter behind the ledger and the
// budget gate. AddUsage must be atomic with respect to concurrent calls
// on the same day key: two simultaneous increments must both land, never
// overwrite each other. It is the single shared mutable resource in the
// advisory pipeline.
type UsageStore interface {
	// AddUsage increments the day's cost and request counters.
	AddUsage(ctx context.Context, dayKey string, costMicroUSD int64, requests int64) error

	// DailyCostMicroUSD returns the day's accumulated cost. A day with no
	// record reads as zero.
	DailyCostMicroUSD(ctx context.Context, dayKey string) (int64, error)

	Close() error
}

// DayKey returns the YYYY-MM-DD ledger key for the processing-local day.
func DayKey(now time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	return now.Format("2006-01-02")
}
