package ledger

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStore_AddUsageAndDailyCost(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "usage.sqlite"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	day := "2026-08-28"

	if cost, err := store.DailyCostMicroUSD(ctx, day); err != nil || cost != 0 {
		t.Fatalf("empty day: cost=%d err=%v", cost, err)
	}

	if err := store.AddUsage(ctx, day, 1500, 1); err != nil {
		t.Fatalf("AddUsage #1: %v", err)
	}
	if err := store.AddUsage(ctx, day, 500, 1); err != nil {
		t.Fatalf("AddUsage #2: %v", err)
	}

	cost, err := store.DailyCostMicroUSD(ctx, day)
	if err != nil {
		t.Fatalf("DailyCostMicroUSD: %v", err)
	}
	if cost != 2000 {
		t.Fatalf("cost=%d, want 2000", cost)
	}
	requests, err := store.DailyRequests(ctx, day)
	if err != nil {
		t.Fatalf("DailyRequests: %v", err)
	}
	if requests != 2 {
		t.Fatalf("requests=%d, want 2", requests)
	}

	// A different day reads as zero.
	if cost, err := store.DailyCostMicroUSD(ctx, "2026-08-29"); err != nil || cost != 0 {
		t.Fatalf("other day: cost=%d err=%v", cost, err)
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "usage.sqlite")
	ctx := context.Background()
	day := "2026-08-28"

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := store.AddUsage(ctx, day, 42, 1); err != nil {
		t.Fatalf("AddUsage: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	if cost, err := store.DailyCostMicroUSD(ctx, day); err != nil || cost != 42 {
		t.Fatalf("after reopen: cost=%d err=%v", cost, err)
	}
}

func TestSQLiteStore_RejectsInvalidInputs(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSQLiteStore(filepath.Join(dir, "usage.sqlite"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.AddUsage(ctx, "", 1, 1); err == nil {
		t.Fatal("expected error for empty day key")
	}
	if err := store.AddUsage(ctx, "2026-08-28", -1, 1); err == nil {
		t.Fatal("expected error for negative cost")
	}
}
