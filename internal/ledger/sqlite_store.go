// sqlite_store.go - SQLite-backed daily usage store

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps per-day advisory spend in a local SQLite file so the
// budget survives process restarts. A single connection plus WAL and a
// busy timeout serializes the upsert against concurrent requests.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("usage sqlite: path is required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("usage sqlite: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o700); err != nil {
		return nil, fmt.Errorf("usage sqlite: create directory: %w", err)
	}

	// Use file: DSN to allow pragma parameters.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", abs)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("usage sqlite: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("usage sqlite: ping database: %w", err)
	}

	store := &SQLiteStore{db: db, path: abs}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("usage sqlite: not initialized")
	}
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS advisor_daily_usage (
			day TEXT NOT NULL PRIMARY KEY,
			requests INTEGER NOT NULL,
			cost_micro_usd INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("usage sqlite: create table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddUsage(ctx context.Context, dayKey string, costMicroUSD int64, requests int64) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("usage sqlite: not initialized")
	}
	dayKey = strings.TrimSpace(dayKey)
	if dayKey == "" {
		return fmt.Errorf("usage sqlite: day key is required")
	}
	if costMicroUSD < 0 || requests < 0 {
		return fmt.Errorf("usage sqlite: invalid deltas")
	}

	now := time.Now().UTC().Unix()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO advisor_daily_usage (day, requests, cost_micro_usd, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			requests = requests + excluded.requests,
			cost_micro_usd = cost_micro_usd + excluded.cost_micro_usd,
			updated_at = excluded.updated_at
	`, dayKey, requests, costMicroUSD, now)
	if err != nil {
		return fmt.Errorf("usage sqlite: add usage: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DailyCostMicroUSD(ctx context.Context, dayKey string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("usage sqlite: not initialized")
	}
	dayKey = strings.TrimSpace(dayKey)
	if dayKey == "" {
		return 0, fmt.Errorf("usage sqlite: day key is required")
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT cost_micro_usd FROM advisor_daily_usage WHERE day = ?
	`, dayKey)
	var total int64
	if err := row.Scan(&total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("usage sqlite: daily cost: %w", err)
	}
	return total, nil
}

// DailyRequests reports the day's request count.
func (s *SQLiteStore) DailyRequests(ctx context.Context, dayKey string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("usage sqlite: not initialized")
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT requests FROM advisor_daily_usage WHERE day = ?
	`, strings.TrimSpace(dayKey))
	var requests int64
	if err := row.Scan(&requests); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("usage sqlite: daily requests: %w", err)
	}
	return requests, nil
}
