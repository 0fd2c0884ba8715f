// Package sqlite implements the repository interfaces over a SQLite-backed
// JSON key/value table.
//
// WHY A KEY/VALUE TABLE AND NOT RELATIONAL TABLES?
// The persistence contract here is deliberately localStorage-shaped: a small
// set of keys, each holding one JSON-encoded value, every write a whole-record
// overwrite, last write wins. Modelling that as normalized tables would invent
// a stronger contract than the system has (partial updates, row-level
// constraints) and every consumer would still read and write whole records.
// One storage table keeps the contract honest and the recovery policy in a
// single place.
//
// WHY modernc.org/sqlite?
// It is a pure-Go translation of SQLite — no CGo, no C compiler, trivial
// cross-compilation. The database is a single local file, which matches the
// device-local persistence model: carts and accounts live on this machine
// only.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// Storage wraps a sql.DB connection pool and provides typed access to the
// key/value table. The typed stores (Users, Carts) are views over the same
// connection.
type Storage struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*Storage, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Force an immediate connection so a bad path fails here, not on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight. Single-process
	// access is the norm here, but the HTTP server is concurrent.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	s := &Storage{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return s, nil
}

// Close closes the connection pool. Defer this wherever New is called.
func (s *Storage) Close() error {
	return s.conn.Close()
}

func (s *Storage) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS storage (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating storage table: %w", err)
	}
	return nil
}

// getJSON reads the value under key into dest.
//
// RECOVERY POLICY — THE ONE PLACE IT LIVES:
// An absent key and a malformed value are both treated as "empty": dest is
// left untouched and ok is false. The source system parsed persisted text
// optimistically and would have thrown on corruption; here we choose the
// forgiving policy so one bad record can't brick the store. Callers decide
// what "empty" means (empty map, empty cart, no active user).
func (s *Storage) getJSON(ctx context.Context, key string, dest any) (ok bool, err error) {
	var raw string
	err = s.conn.QueryRowContext(ctx,
		`SELECT value FROM storage WHERE key = ?`, key,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("sqlite: reading key %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		// Malformed persisted data — treat as empty rather than failing.
		return false, nil
	}
	return true, nil
}

// putJSON writes value under key as a single whole-record overwrite.
func (s *Storage) putJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("sqlite: encoding value for key %q: %w", key, err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("sqlite: writing key %q: %w", key, err)
	}
	return nil
}

// deleteKey removes a key. Deleting an absent key is a no-op.
func (s *Storage) deleteKey(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite: deleting key %q: %w", key, err)
	}
	return nil
}
