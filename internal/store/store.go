// package store provides the client-local persistence layer.
//
// A single SQLite table holds origin-scoped key/value pairs: the
// session token, user id, admin flag and device id. Values survive
// restarts the way the webapp's localStorage did.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/wissl-audio/trill/internal/shared"
)

// KV is a SQLite-backed key/value store.
type KV struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS keyvalue (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`

// Open opens (and creates, if needed) the store at the given path.
// The path can be ":memory:" for tests.
func Open(path string) (*KV, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &KV{db: db}, nil
}

// Close releases the underlying database handle.
func (s *KV) Close() error {
	return s.db.Close()
}

// Get returns the value for key, with found reporting whether the key
// exists at all.
func (s *KV) Get(key string) (value string, found bool, err error) {
	row := s.db.QueryRow("SELECT value FROM keyvalue WHERE key = ?", key)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *KV) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO keyvalue (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KV) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM keyvalue WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
