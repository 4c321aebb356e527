package domain

import (
	"fmt"
	"sort"
)

// TrendEntry is the size delta of one directory between two scans.
// OldSizeBytes of zero with a nonzero NewSizeBytes marks a directory
// that appeared between the scans, and the reverse marks a removal.
type TrendEntry struct {
	Path         string
	OldSizeBytes int64
	NewSizeBytes int64
	DeltaBytes   int64
	DeltaPercent float64
}

// New reports whether the directory appeared between the two scans.
func (e TrendEntry) New() bool { return e.OldSizeBytes == 0 && e.NewSizeBytes > 0 }

// Removed reports whether the directory disappeared between the two scans.
func (e TrendEntry) Removed() bool { return e.NewSizeBytes == 0 && e.OldSizeBytes > 0 }

// TrendReport is the derived diff between two scans of the same root.
// It is recomputed on demand and never persisted.
type TrendReport struct {
	From            *ScanResult
	To              *ScanResult
	DirDeltas       []TrendEntry
	TotalDeltaBytes int64
}

// Compare diffs two scans of the same normalized root, ordered
// older→newer by the caller. It is a pure function of its inputs.
func Compare(older, newer *ScanResult) (*TrendReport, error) {
	if older.RootPath != newer.RootPath {
		return nil, fmt.Errorf("%w: %s vs %s", ErrMismatchedRoot, older.RootPath, newer.RootPath)
	}

	oldSizes := make(map[string]int64, len(older.TopDirs))
	for _, d := range older.TopDirs {
		oldSizes[d.Path] = d.SizeBytes
	}
	newSizes := make(map[string]int64, len(newer.TopDirs))
	for _, d := range newer.TopDirs {
		newSizes[d.Path] = d.SizeBytes
	}

	seen := make(map[string]struct{}, len(oldSizes)+len(newSizes))
	report := &TrendReport{From: older, To: newer}

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}

		oldSize := oldSizes[path]
		newSize := newSizes[path]
		delta := newSize - oldSize

		var pct float64
		if oldSize > 0 {
			pct = float64(delta) / float64(oldSize) * 100
		}

		report.DirDeltas = append(report.DirDeltas, TrendEntry{
			Path:         path,
			OldSizeBytes: oldSize,
			NewSizeBytes: newSize,
			DeltaBytes:   delta,
			DeltaPercent: pct,
		})
		report.TotalDeltaBytes += delta
	}

	for _, d := range older.TopDirs {
		add(d.Path)
	}
	for _, d := range newer.TopDirs {
		add(d.Path)
	}

	sort.SliceStable(report.DirDeltas, func(i, j int) bool {
		a, b := abs64(report.DirDeltas[i].DeltaBytes), abs64(report.DirDeltas[j].DeltaBytes)
		if a != b {
			return a > b
		}
		return report.DirDeltas[i].Path < report.DirDeltas[j].Path
	})

	return report, nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
