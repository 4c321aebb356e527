package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/duskscan/dusk/internal/port"
)

// Store implements port.ScanRepository using SQLite. Scans are
// append-only: the schema exposes insert, select and the prune delete,
// never an update.
type Store struct {
	db *sql.DB
}

// Ensure Store implements port.ScanRepository
var _ port.ScanRepository = (*Store)(nil)

// Open opens a connection to the SQLite database
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	// Open database with WAL mode and busy timeout
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks database connectivity
func (s *Store) Ping() error {
	return s.db.Ping()
}

// migrate creates or updates the database schema
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			root_path TEXT NOT NULL,
			scanned_at TEXT NOT NULL,
			depth INTEGER NOT NULL DEFAULT 1,
			min_file_size INTEGER NOT NULL DEFAULT 0,
			vol_total INTEGER NOT NULL DEFAULT 0,
			vol_used INTEGER NOT NULL DEFAULT 0,
			vol_free INTEGER NOT NULL DEFAULT 0,
			vol_filesystem TEXT,
			vol_mount_path TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS scan_entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id INTEGER NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('dir', 'file')),
			path TEXT NOT NULL,
			size_bytes INTEGER NOT NULL,
			FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
		)`,

		`CREATE INDEX IF NOT EXISTS idx_scans_root_path ON scans(root_path, scanned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_entries_scan_id ON scan_entries(scan_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, migration)
		}
	}

	return nil
}
