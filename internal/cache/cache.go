// Package cache stores scraped Reddit data in a local SQLite database so
// repeated runs against the same user do not hit the API again.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/drpaneas/redditpersona/internal/reddit"
)

// FileName is the database file created inside the cache directory.
const FileName = "redditpersona.db"

const schema = `
CREATE TABLE IF NOT EXISTS user_data (
    username   TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    items      INTEGER NOT NULL DEFAULT 0,
    fetched_at INTEGER NOT NULL
);
`

// Store is a SQLite-backed cache of reddit.UserData keyed by lowercase username.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func key(username string) string { return strings.ToLower(strings.TrimSpace(username)) }

// Get returns the cached data for username when it was fetched less than
// maxAge ago. A zero maxAge accepts any age. ok is false on a miss.
func (s *Store) Get(ctx context.Context, username string, maxAge time.Duration) (data *reddit.UserData, ok bool, err error) {
	var (
		payload   string
		fetchedAt int64
	)
	err = s.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM user_data WHERE username = ?", key(username),
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %q: %w", username, err)
	}

	if maxAge > 0 && time.Since(time.Unix(fetchedAt, 0)) > maxAge {
		return nil, false, nil
	}

	data = &reddit.UserData{}
	if err := json.Unmarshal([]byte(payload), data); err != nil {
		return nil, false, fmt.Errorf("cache: decode %q: %w", username, err)
	}
	return data, true, nil
}

// Put upserts data under username.
func (s *Store) Put(ctx context.Context, username string, data *reddit.UserData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", username, err)
	}
	fetched := data.FetchedAt
	if fetched.IsZero() {
		fetched = time.Now()
	}
	const q = `
		INSERT INTO user_data (username, payload, items, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			payload = excluded.payload,
			items = excluded.items,
			fetched_at = excluded.fetched_at`
	if _, err := s.db.ExecContext(ctx, q, key(username), string(payload), data.TotalItems(), fetched.Unix()); err != nil {
		return fmt.Errorf("cache: put %q: %w", username, err)
	}
	return nil
}

// Purge deletes entries fetched more than olderThan ago and returns how many
// were removed.
func (s *Store) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := s.db.ExecContext(ctx, "DELETE FROM user_data WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cache: purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache: purge rows affected: %w", err)
	}
	return n, nil
}
