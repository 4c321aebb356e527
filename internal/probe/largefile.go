package probe

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/domain"
	"github.com/duskscan/dusk/internal/port"
)

const largeFileProbeName = "largefile"

// LargeFileFinder locates files at or above a size threshold through
// the Spotlight index (mdfind), falling back to find -xdev where no
// index is available. Index lookups are near-instant but may miss files
// created since the index last updated; that staleness is accepted.
// Sizes come from an in-process lstat per candidate, not a process per
// file.
type LargeFileFinder struct {
	runner  port.Runner
	timeout time.Duration
	logger  *zap.Logger

	// statSize is swapped out in tests.
	statSize func(path string) (int64, error)
}

// Ensure LargeFileFinder implements port.LargeFileProbe
var _ port.LargeFileProbe = (*LargeFileFinder)(nil)

// NewLargeFileFinder creates a large-file probe with the given bounded wait.
func NewLargeFileFinder(runner port.Runner, timeout time.Duration, logger *zap.Logger) *LargeFileFinder {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LargeFileFinder{
		runner:   runner,
		timeout:  timeout,
		logger:   logger,
		statSize: lstatSize,
	}
}

// LargeFiles returns files under root with size >= minSizeBytes.
func (p *LargeFileFinder) LargeFiles(ctx context.Context, root string, minSizeBytes int64) ([]domain.SizedEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	paths, err := p.query(ctx, root, minSizeBytes)
	if err != nil {
		return nil, err
	}

	var entries []domain.SizedEntry
	for _, path := range paths {
		size, err := p.statSize(path)
		if err != nil {
			// The index can reference files deleted since its last update.
			continue
		}
		if size < minSizeBytes {
			// Stale index entry: the file shrank below the threshold.
			continue
		}
		entries = append(entries, domain.SizedEntry{Path: path, SizeBytes: size})
	}
	return entries, nil
}

// query asks the metadata index for candidate paths, one per line.
func (p *LargeFileFinder) query(ctx context.Context, root string, minSizeBytes int64) ([]string, error) {
	if _, err := p.runner.LookPath("mdfind"); err == nil {
		out, err := p.runner.Run(ctx, "mdfind",
			"-onlyin", root,
			fmt.Sprintf("kMDItemFSSize >= %d", minSizeBytes))
		if err == nil {
			return splitPaths(out), nil
		}
		if timedOut(ctx, err) {
			return nil, domain.NewProbeTimeout(largeFileProbeName, err)
		}
		// Spotlight disabled for this volume; fall through to find.
		p.logger.Debug("mdfind failed, falling back to find", zap.Error(err))
	}

	if _, err := p.runner.LookPath("find"); err != nil {
		return nil, domain.NewProbeUnavailable(largeFileProbeName, err)
	}

	// find's +Nc matches strictly greater than N bytes.
	out, err := p.runner.Run(ctx, "find", root,
		"-xdev", "-type", "f",
		"-size", fmt.Sprintf("+%dc", minSizeBytes-1))
	if err != nil {
		if timedOut(ctx, err) {
			return nil, domain.NewProbeTimeout(largeFileProbeName, err)
		}
		// find exits non-zero on unreadable subtrees; salvage any output.
		if paths := splitPaths(out); len(paths) > 0 {
			p.logger.Warn("large file search incomplete",
				zap.String("root", root), zap.Error(err))
			return paths, nil
		}
		return nil, domain.NewProbeUnavailable(largeFileProbeName, err)
	}
	return splitPaths(out), nil
}

func splitPaths(out []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(out), "\n") {
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

func lstatSize(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("%s is not a regular file", path)
	}
	return info.Size(), nil
}
