package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/duskscan/dusk/internal/domain"
)

const (
	entryKindDir  = "dir"
	entryKindFile = "file"
)

// Save persists a scan and its entries in one transaction, assigning
// the id (and timestamp if absent). Scans are never updated after this.
func (s *Store) Save(result *domain.ScanResult) (int64, error) {
	if result.ScannedAt.IsZero() {
		result.ScannedAt = time.Now()
	}
	// UTC with a fixed format keeps the lexicographic recency ordering
	// the indexes rely on.
	result.ScannedAt = result.ScannedAt.UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO scans
			(root_path, scanned_at, depth, min_file_size,
			 vol_total, vol_used, vol_free, vol_filesystem, vol_mount_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RootPath,
		result.ScannedAt.Format(time.RFC3339Nano),
		result.Depth,
		result.MinFileSizeBytes,
		result.Volume.TotalBytes,
		result.Volume.UsedBytes,
		result.Volume.FreeBytes,
		result.Volume.Filesystem,
		result.Volume.MountPath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO scan_entries (scan_id, kind, path, size_bytes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range result.TopDirs {
		if _, err := stmt.Exec(id, entryKindDir, d.Path, d.SizeBytes); err != nil {
			return 0, fmt.Errorf("failed to insert dir entry: %w", err)
		}
	}
	for _, f := range result.LargeFiles {
		if _, err := stmt.Exec(id, entryKindFile, f.Path, f.SizeBytes); err != nil {
			return 0, fmt.Errorf("failed to insert file entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}

	result.ID = id
	return id, nil
}

// Get retrieves a scan by id.
func (s *Store) Get(id int64) (*domain.ScanResult, error) {
	row := s.db.QueryRow(
		`SELECT id, root_path, scanned_at, depth, min_file_size,
			vol_total, vol_used, vol_free, vol_filesystem, vol_mount_path
		 FROM scans WHERE id = ?`, id)

	result, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadEntries(result); err != nil {
		return nil, err
	}
	return result, nil
}

// List returns scans most recent first, optionally filtered by root path.
func (s *Store) List(rootPath string, limit int) ([]*domain.ScanResult, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, root_path, scanned_at, depth, min_file_size,
			vol_total, vol_used, vol_free, vol_filesystem, vol_mount_path
		 FROM scans`
	args := []any{}
	if rootPath != "" {
		query += ` WHERE root_path = ?`
		args = append(args, rootPath)
	}
	query += ` ORDER BY scanned_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var results []*domain.ScanResult
	for rows.Next() {
		result, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, result := range results {
		if err := s.loadEntries(result); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// LatestTwo returns the two most recent scans for a root path, ordered
// older then newer.
func (s *Store) LatestTwo(rootPath string) (*domain.ScanResult, *domain.ScanResult, error) {
	results, err := s.List(rootPath, 2)
	if err != nil {
		return nil, nil, err
	}
	if len(results) < 2 {
		return nil, nil, fmt.Errorf("%w: %d scan(s) for %s, need 2",
			domain.ErrInsufficientHistory, len(results), rootPath)
	}
	// List is most recent first.
	return results[1], results[0], nil
}

// Prune deletes all but the keepPerPath most recent scans per distinct
// root path. This is the only delete operation in the system.
func (s *Store) Prune(keepPerPath int) (int, error) {
	if keepPerPath < 0 {
		keepPerPath = 0
	}

	roots, err := s.db.Query(`SELECT DISTINCT root_path FROM scans`)
	if err != nil {
		return 0, fmt.Errorf("failed to list scan roots: %w", err)
	}
	defer roots.Close()

	var paths []string
	for roots.Next() {
		var path string
		if err := roots.Scan(&path); err != nil {
			return 0, err
		}
		paths = append(paths, path)
	}
	if err := roots.Err(); err != nil {
		return 0, err
	}

	deleted := 0
	for _, path := range paths {
		res, err := s.db.Exec(
			`DELETE FROM scans WHERE root_path = ? AND id NOT IN (
				SELECT id FROM scans WHERE root_path = ?
				ORDER BY scanned_at DESC, id DESC LIMIT ?
			)`, path, path, keepPerPath)
		if err != nil {
			return deleted, fmt.Errorf("failed to prune scans for %s: %w", path, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return deleted, err
		}
		deleted += int(n)
	}
	return deleted, nil
}

// rowScanner covers both sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*domain.ScanResult, error) {
	var (
		result    domain.ScanResult
		scannedAt string
		fsKind    sql.NullString
		mountPath sql.NullString
	)

	err := row.Scan(
		&result.ID, &result.RootPath, &scannedAt, &result.Depth, &result.MinFileSizeBytes,
		&result.Volume.TotalBytes, &result.Volume.UsedBytes, &result.Volume.FreeBytes,
		&fsKind, &mountPath,
	)
	if err != nil {
		return nil, err
	}

	result.ScannedAt, err = time.Parse(time.RFC3339Nano, scannedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scan timestamp %q: %w", scannedAt, err)
	}
	result.Volume.Filesystem = fsKind.String
	result.Volume.MountPath = mountPath.String

	return &result, nil
}

func (s *Store) loadEntries(result *domain.ScanResult) error {
	rows, err := s.db.Query(
		`SELECT kind, path, size_bytes FROM scan_entries
		 WHERE scan_id = ?
		 ORDER BY size_bytes DESC, path ASC`, result.ID)
	if err != nil {
		return fmt.Errorf("failed to load scan entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind  string
			entry domain.SizedEntry
		)
		if err := rows.Scan(&kind, &entry.Path, &entry.SizeBytes); err != nil {
			return err
		}
		switch kind {
		case entryKindDir:
			result.TopDirs = append(result.TopDirs, entry)
		case entryKindFile:
			result.LargeFiles = append(result.LargeFiles, entry)
		}
	}
	return rows.Err()
}
