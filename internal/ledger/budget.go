// budget.go - Daily budget gate for the advisory feature

package ledger

import (
	"context"
	"log"
)

// BudgetGate decides whether a paid advisory call may proceed. It only
// reads the ledger; recording is the Ledger's job.
//
// failOpen names an explicit policy, not an incidental catch-all: when
// the store cannot be read, a transient outage must not silently disable
// the feature for everyone, and the worst-case exposure is one day of
// traffic, not unlimited spend. Deployments wanting the opposite set
// BUDGET_FAIL_OPEN=false.
type BudgetGate struct {
	store         UsageStore
	limitMicroUSD int64
	failOpen      bool
}

func NewBudgetGate(store UsageStore, dailyLimitUSD float64, failOpen bool) *BudgetGate {
	return &BudgetGate{
		store:         store,
		limitMicroUSD: USDToMicroUSD(dailyLimitUSD),
		failOpen:      failOpen,
	}
}

// IsWithinBudget reports whether today's spend is strictly below the
// daily limit. A day with no record is within budget. Spend exactly at
// the limit closes the gate.
func (g *BudgetGate) IsWithinBudget(ctx context.Context) bool {
	spent, err := g.store.DailyCostMicroUSD(ctx, DayKey(nowFunc()))
	if err != nil {
		log.Printf("⚠️  budget gate: ledger read failed, fail-open=%v: %v", g.failOpen, err)
		return g.failOpen
	}
	return spent < g.limitMicroUSD
}
