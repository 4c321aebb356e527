package domain

import (
	"sort"
	"time"
)

// UsageLevel classifies how full a volume is.
type UsageLevel string

const (
	UsageGreen  UsageLevel = "green"
	UsageYellow UsageLevel = "yellow"
	UsageRed    UsageLevel = "red"
)

// VolumeInfo describes the volume containing a scanned path. It is
// produced fresh on every scan and only persisted as part of a
// ScanResult.
type VolumeInfo struct {
	TotalBytes int64
	UsedBytes  int64
	FreeBytes  int64
	Filesystem string
	MountPath  string
}

// UsedPercent returns the used fraction of the volume in percent.
func (v VolumeInfo) UsedPercent() float64 {
	if v.TotalBytes <= 0 {
		return 0
	}
	return float64(v.UsedBytes) / float64(v.TotalBytes) * 100
}

// Classify buckets the volume usage against the warn/crit thresholds
// (percentages). Usage below warn is green, at or above crit is red.
func (v VolumeInfo) Classify(warnPct, critPct float64) UsageLevel {
	pct := v.UsedPercent()
	switch {
	case pct >= critPct:
		return UsageRed
	case pct >= warnPct:
		return UsageYellow
	default:
		return UsageGreen
	}
}

// SizedEntry is one measured directory or file. Immutable once produced.
type SizedEntry struct {
	Path      string
	SizeBytes int64
}

// ScanResult is one complete snapshot of a path's disk usage at a point
// in time. It is immutable once written to the history store.
type ScanResult struct {
	// ID is assigned by the history store; zero before persistence.
	ID        int64
	RootPath  string
	ScannedAt time.Time
	Depth     int

	Volume     VolumeInfo
	TopDirs    []SizedEntry
	LargeFiles []SizedEntry

	// MinFileSizeBytes is the threshold the large-file probe ran with.
	MinFileSizeBytes int64

	// Degradation state for sections whose probe failed non-fatally.
	// Carried in memory only, never persisted.
	TopDirsDegraded    bool
	LargeFilesDegraded bool
	Warnings           []string
}

// TotalScannedBytes sums the measured top-level directories.
func (r *ScanResult) TotalScannedBytes() int64 {
	var total int64
	for _, d := range r.TopDirs {
		total += d.SizeBytes
	}
	return total
}

// Degraded reports whether any section of the result is incomplete.
func (r *ScanResult) Degraded() bool {
	return r.TopDirsDegraded || r.LargeFilesDegraded
}

// SortEntries orders entries by size descending, ties broken by path
// ascending, so repeated scans of identical trees produce identical
// ordering.
func SortEntries(entries []SizedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SizeBytes != entries[j].SizeBytes {
			return entries[i].SizeBytes > entries[j].SizeBytes
		}
		return entries[i].Path < entries[j].Path
	})
}
