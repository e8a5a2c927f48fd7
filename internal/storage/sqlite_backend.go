package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // register sqlite driver
)

// sqliteSchemaDDL defines the snapshot table for the SQLite backend.
//
// A single key-value table holds one row per snapshot key; this
// application only ever uses SnapshotKey.
const sqliteSchemaDDL = `
CREATE TABLE IF NOT EXISTS snapshots (
    key TEXT PRIMARY KEY,
    data TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
);
`

// SQLiteBackend implements SnapshotBackend using a SQLite database.
//
// Each save replaces the single snapshot row inside a transaction, so
// readers never observe a partial write. Uses WAL mode.
type SQLiteBackend struct {
	// DBPath is the absolute path to the SQLite database file.
	DBPath string
}

// NewSQLiteBackend creates a SQLiteBackend and initializes the schema.
//
// Parent directories are created automatically. Returns an error if
// schema creation fails.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	backend := &SQLiteBackend{DBPath: dbPath}

	if err := backend.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return backend, nil
}

// connect opens a database connection with WAL mode enabled, creating
// parent directories if needed.
func (b *SQLiteBackend) connect() (*sql.DB, error) {
	dir := filepath.Dir(b.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", b.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	return db, nil
}

// ensureSchema creates the snapshot table if it does not exist.
func (b *SQLiteBackend) ensureSchema() error {
	db, err := b.connect()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(sqliteSchemaDDL); err != nil {
		return fmt.Errorf("failed to execute schema DDL: %w", err)
	}

	return nil
}

// LoadSnapshot returns the stored snapshot, or nil if none exists.
//
// Returns an error if the database cannot be opened or queried.
func (b *SQLiteBackend) LoadSnapshot() ([]byte, error) {
	db, err := b.connect()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	var data string
	err = db.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, SnapshotKey).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	return []byte(data), nil
}

// SaveSnapshot replaces the stored snapshot via upsert.
//
// Returns an error if the database cannot be opened or written.
func (b *SQLiteBackend) SaveSnapshot(data []byte) error {
	db, err := b.connect()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	_, err = db.Exec(
		`INSERT INTO snapshots (key, data, updated_at)
		 VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		 ON CONFLICT(key) DO UPDATE SET
		     data = excluded.data,
		     updated_at = excluded.updated_at`,
		SnapshotKey, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}
