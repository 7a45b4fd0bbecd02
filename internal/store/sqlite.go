package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps documents as rows keyed by path.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dsn.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serialises writers and keeps ":memory:" databases
	// from splitting across connections.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at_unixms INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Read(ctx context.Context, path string) (string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

func (s *SQLiteStore) Write(ctx context.Context, path, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents(path, body, updated_at_unixms) VALUES(?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET body = excluded.body, updated_at_unixms = excluded.updated_at_unixms`,
		path, text, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
