package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/domain"
	"github.com/duskscan/dusk/internal/port"
)

// Options configures one scan invocation.
type Options struct {
	Depth            int
	TopDirs          int
	LargeFiles       int
	MinFileSizeBytes int64
}

// DefaultOptions returns the scan defaults.
func DefaultOptions() Options {
	return Options{
		Depth:            1,
		TopDirs:          20,
		LargeFiles:       10,
		MinFileSizeBytes: 100 * 1024 * 1024,
	}
}

// Coordinator fans a scan out to the three probes, joins their results
// and merges them into one ScanResult. Probes run concurrently with
// isolated failures: each returns its own result value and nothing is
// shared until all three have settled.
type Coordinator struct {
	volume port.VolumeProbe
	dirs   port.DirSizeProbe
	files  port.LargeFileProbe
	logger *zap.Logger
}

// New creates a scan coordinator.
func New(volume port.VolumeProbe, dirs port.DirSizeProbe, files port.LargeFileProbe, logger *zap.Logger) *Coordinator {
	return &Coordinator{volume: volume, dirs: dirs, files: files, logger: logger}
}

// Scan produces one ScanResult for root. Volume metadata failure is
// fatal; a failed directory or large-file probe degrades its section to
// empty with a recorded warning instead of aborting.
func (c *Coordinator) Scan(ctx context.Context, root string, opts Options) (*domain.ScanResult, error) {
	normalized, err := domain.NormalizePath(root)
	if err != nil {
		return nil, domain.NewScanError("invalid root path", err)
	}
	if opts.Depth < 1 {
		opts.Depth = 1
	}

	var (
		wg sync.WaitGroup

		volInfo *domain.VolumeInfo
		volErr  error

		dirEntries []domain.SizedEntry
		dirPartial bool
		dirErr     error

		fileEntries []domain.SizedEntry
		fileErr     error
	)

	started := time.Now()
	wg.Add(3)
	go func() {
		defer wg.Done()
		volInfo, volErr = c.volume.VolumeInfo(ctx, normalized)
	}()
	go func() {
		defer wg.Done()
		dirEntries, dirPartial, dirErr = c.dirs.DirSizes(ctx, normalized, opts.Depth)
	}()
	go func() {
		defer wg.Done()
		fileEntries, fileErr = c.files.LargeFiles(ctx, normalized, opts.MinFileSizeBytes)
	}()
	wg.Wait()

	if volErr != nil {
		return nil, domain.NewScanError("volume metadata unavailable", volErr)
	}

	result := &domain.ScanResult{
		RootPath:         normalized,
		ScannedAt:        time.Now(),
		Depth:            opts.Depth,
		Volume:           *volInfo,
		MinFileSizeBytes: opts.MinFileSizeBytes,
	}

	switch {
	case dirErr != nil:
		result.TopDirsDegraded = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("directory sizes unavailable: %v", dirErr))
		c.logger.Warn("directory size probe failed",
			zap.String("root", normalized), zap.Error(dirErr))
	default:
		result.TopDirs = topN(dirEntries, opts.TopDirs)
		if dirPartial {
			result.TopDirsDegraded = true
			result.Warnings = append(result.Warnings,
				"directory sizes are incomplete: measurement was cut short")
		}
	}

	if fileErr != nil {
		result.LargeFilesDegraded = true
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("large files unavailable: %v", fileErr))
		c.logger.Warn("large file probe failed",
			zap.String("root", normalized), zap.Error(fileErr))
	} else {
		result.LargeFiles = topN(fileEntries, opts.LargeFiles)
	}

	c.logger.Info("scan complete",
		zap.String("root", normalized),
		zap.Int("top_dirs", len(result.TopDirs)),
		zap.Int("large_files", len(result.LargeFiles)),
		zap.Bool("degraded", result.Degraded()),
		zap.Duration("elapsed", time.Since(started)),
	)

	return result, nil
}

// topN dedupes by path, orders by size descending with a deterministic
// path tie-break, and truncates to n entries.
func topN(entries []domain.SizedEntry, n int) []domain.SizedEntry {
	seen := make(map[string]struct{}, len(entries))
	unique := entries[:0:0]
	for _, e := range entries {
		if _, ok := seen[e.Path]; ok {
			continue
		}
		seen[e.Path] = struct{}{}
		unique = append(unique, e)
	}

	domain.SortEntries(unique)
	if n > 0 && len(unique) > n {
		unique = unique[:n]
	}
	return unique
}
