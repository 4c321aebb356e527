package port

import "github.com/duskscan/dusk/internal/domain"

// ScanRepository is the append-only history of scan snapshots, grouped
// by normalized root path. Scans are never mutated after Save; Prune is
// the only delete operation.
type ScanRepository interface {
	// Save persists a scan, assigns its id (and timestamp if absent) and
	// returns the id.
	Save(result *domain.ScanResult) (int64, error)

	// Get returns the scan with the given id, or domain.ErrNotFound.
	Get(id int64) (*domain.ScanResult, error)

	// List returns scans most recent first, optionally filtered by
	// normalized root path (empty matches all).
	List(rootPath string, limit int) ([]*domain.ScanResult, error)

	// LatestTwo returns the two most recent scans for a normalized root
	// path, ordered older then newer, or domain.ErrInsufficientHistory.
	LatestTwo(rootPath string) (older, newer *domain.ScanResult, err error)

	// Prune deletes all but the keepPerPath most recent scans per
	// distinct root path, oldest first, returning the number deleted.
	Prune(keepPerPath int) (int, error)

	Close() error
}
