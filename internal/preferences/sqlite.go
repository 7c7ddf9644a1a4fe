package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // sqlite driver
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS preference (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database file at path, use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s, %w", path, err)
	}
	// a memory database only lives as long as its connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to ping sqlite database %s, %w", path, err), db.Close())
	}

	return db, nil
}

// NewSQLiteStore creates the preference table if required.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (Store, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create preference table, %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM preference WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("failed to select preference %s, %w", key, err)
	}

	return value, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preference (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store preference %s, %w", key, err)
	}

	return nil
}
