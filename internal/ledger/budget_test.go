package ledger

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubStore struct {
	costMicroUSD int64
}

func (s *stubStore) AddUsage(ctx context.Context, dayKey string, costMicroUSD, requests int64) error {
	s.costMicroUSD += costMicroUSD
	return nil
}

func (s *stubStore) DailyCostMicroUSD(ctx context.Context, dayKey string) (int64, error) {
	return s.costMicroUSD, nil
}

func (s *stubStore) Close() error { return nil }

type failingStore struct{}

func (failingStore) AddUsage(ctx context.Context, dayKey string, costMicroUSD, requests int64) error {
	return errors.New("store unavailable")
}

func (failingStore) DailyCostMicroUSD(ctx context.Context, dayKey string) (int64, error) {
	return 0, errors.New("store unavailable")
}

func (failingStore) Close() error { return nil }

func TestBudgetGate_StrictLessThan(t *testing.T) {
	pinDay(t, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	// $4.99 spent against a $5.00 limit: open.
	gate := NewBudgetGate(&stubStore{costMicroUSD: 4_990_000}, 5.00, true)
	if !gate.IsWithinBudget(ctx) {
		t.Fatal("gate closed at $4.99 of $5.00")
	}

	// Exactly $5.00: closed.
	gate = NewBudgetGate(&stubStore{costMicroUSD: 5_000_000}, 5.00, true)
	if gate.IsWithinBudget(ctx) {
		t.Fatal("gate open at exactly $5.00")
	}
}

func TestBudgetGate_NoRecordIsOpen(t *testing.T) {
	pinDay(t, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	gate := NewBudgetGate(&stubStore{}, 5.00, true)
	if !gate.IsWithinBudget(context.Background()) {
		t.Fatal("gate closed with no usage record")
	}
}

func TestBudgetGate_FailurePolicy(t *testing.T) {
	pinDay(t, time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	open := NewBudgetGate(failingStore{}, 5.00, true)
	if !open.IsWithinBudget(ctx) {
		t.Fatal("fail-open gate closed on read failure")
	}

	closed := NewBudgetGate(failingStore{}, 5.00, false)
	if closed.IsWithinBudget(ctx) {
		t.Fatal("fail-closed gate open on read failure")
	}
}
