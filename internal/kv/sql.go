package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flyride/journal/internal/domain"
)

// sqlStore is a database/sql implementation of Store used with SQLite.
// The schema is small enough to be created on open instead of through
// migrations.
type sqlStore struct {
	db *sql.DB
}

const createKVTable = `CREATE TABLE IF NOT EXISTS kv_entries (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// NewSQLStore constructs a Store over an open *sql.DB and ensures the
// kv_entries table exists.
func NewSQLStore(ctx context.Context, db *sql.DB) (Store, error) {
	if _, err := db.ExecContext(ctx, createKVTable); err != nil {
		return nil, fmt.Errorf("kv.NewSQLStore: create table: %w", err)
	}
	return &sqlStore{db: db}, nil
}

func (s *sqlStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, fmt.Errorf("kv.sqlStore.Get: %w", err)
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("kv.sqlStore.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("kv.sqlStore.Get: %w", err)
	}
	return []byte(value), nil
}

func (s *sqlStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("kv.sqlStore.Put: %w", err)
	}

	const q = `INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, q, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("kv.sqlStore.Put: %w", err)
	}
	return nil
}
