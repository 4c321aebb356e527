package probe

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/domain"
	"github.com/duskscan/dusk/internal/port"
)

const dirSizeProbeName = "dirsize"

// DirSizer measures recursive directory sizes through du, depth-limited
// and pinned to the root's filesystem (-x) so mounted sub-volumes are
// neither double-counted nor allowed to hang the scan on network mounts.
type DirSizer struct {
	runner  port.Runner
	timeout time.Duration
	logger  *zap.Logger
}

// Ensure DirSizer implements port.DirSizeProbe
var _ port.DirSizeProbe = (*DirSizer)(nil)

// NewDirSizer creates a directory-size probe with the given bounded wait.
func NewDirSizer(runner port.Runner, timeout time.Duration, logger *zap.Logger) *DirSizer {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &DirSizer{runner: runner, timeout: timeout, logger: logger}
}

// DirSizes returns per-directory recursive sizes below root. A timeout
// or non-zero exit after some lines were emitted yields the partial
// entries with partial=true instead of discarding them.
func (p *DirSizer) DirSizes(ctx context.Context, root string, depth int) ([]domain.SizedEntry, bool, error) {
	if depth < 1 {
		depth = 1
	}
	if _, err := p.runner.LookPath("du"); err != nil {
		return nil, false, domain.NewProbeUnavailable(dirSizeProbeName, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, runErr := p.runner.Run(ctx, "du", "-x", fmt.Sprintf("-d%d", depth), "-k", root)

	entries, skipped := parseDU(out, root)
	if skipped > 0 {
		p.logger.Warn("skipped malformed du lines",
			zap.Int("lines", skipped), zap.String("root", root))
	}

	if runErr != nil {
		// du exits non-zero on unreadable subtrees but still reports the
		// rest; salvage whatever parsed.
		if len(entries) > 0 {
			p.logger.Warn("directory sizing incomplete",
				zap.String("root", root), zap.Error(runErr))
			return entries, true, nil
		}
		if timedOut(ctx, runErr) {
			return nil, false, domain.NewProbeTimeout(dirSizeProbeName, runErr)
		}
		return nil, false, domain.NewProbeUnavailable(dirSizeProbeName, runErr)
	}

	return entries, false, nil
}

// parseDU converts du -k output into entries. Each line is
// <kbytes><TAB><path>; the split is on the first tab, so tabs and
// spaces inside the path survive. Malformed lines are skipped and
// counted, never fatal. The root's own line is dropped.
func parseDU(out []byte, root string) ([]domain.SizedEntry, int) {
	rootClean := filepath.Clean(root)

	var entries []domain.SizedEntry
	skipped := 0

	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		sizeField, path, ok := strings.Cut(line, "\t")
		if !ok {
			skipped++
			continue
		}
		kb, err := strconv.ParseInt(strings.TrimSpace(sizeField), 10, 64)
		if err != nil || kb < 0 {
			skipped++
			continue
		}
		if filepath.Clean(path) == rootClean {
			continue
		}
		entries = append(entries, domain.SizedEntry{
			Path:      path,
			SizeBytes: kb * 1024,
		})
	}

	return entries, skipped
}
