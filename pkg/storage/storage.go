// Package storage provides the durable kv.Store used outside of tests,
// backed by a single-table SQLite database.
package storage

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema
// exists. The returned *DB satisfies kv.Store.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv_records (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

func (d *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM kv_records WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (d *DB) Set(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO kv_records(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

func (d *DB) Delete(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM kv_records WHERE key = ?", key)
	return err
}
