package probe

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/domain"
	"github.com/duskscan/dusk/internal/port"
)

const volumeProbeName = "volume"

// VolumeInspector queries volume metadata through df. Output is parsed
// from the portable (-P) one-row format; the stable key columns are
// 1024-blocks, Used and Mounted on, plus Type when df supports -T.
type VolumeInspector struct {
	runner  port.Runner
	timeout time.Duration
	logger  *zap.Logger
}

// Ensure VolumeInspector implements port.VolumeProbe
var _ port.VolumeProbe = (*VolumeInspector)(nil)

// NewVolumeInspector creates a volume probe with the given bounded wait.
func NewVolumeInspector(runner port.Runner, timeout time.Duration, logger *zap.Logger) *VolumeInspector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &VolumeInspector{runner: runner, timeout: timeout, logger: logger}
}

// VolumeInfo returns metadata for the volume containing path.
func (p *VolumeInspector) VolumeInfo(ctx context.Context, path string) (*domain.VolumeInfo, error) {
	if _, err := p.runner.LookPath("df"); err != nil {
		return nil, domain.NewProbeUnavailable(volumeProbeName, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// Resolve the mount point ourselves so df reports the whole volume
	// even when handed a deep subdirectory.
	target := path
	if mount, err := MountPoint(path); err == nil {
		target = mount
	} else {
		p.logger.Debug("mount point resolution failed, using path directly",
			zap.String("path", path), zap.Error(err))
	}

	out, err := p.runner.Run(ctx, "df", "-P", "-k", "-T", target)
	withType := true
	if err != nil {
		if timedOut(ctx, err) {
			return nil, domain.NewProbeTimeout(volumeProbeName, err)
		}
		// BSD df has no -T; retry with the plain portable format.
		out, err = p.runner.Run(ctx, "df", "-P", "-k", target)
		withType = false
		if err != nil {
			if timedOut(ctx, err) {
				return nil, domain.NewProbeTimeout(volumeProbeName, err)
			}
			return nil, domain.NewProbeUnavailable(volumeProbeName, err)
		}
	}

	info, err := parseDF(out, withType)
	if err != nil {
		return nil, domain.NewProbeUnavailable(volumeProbeName, err)
	}
	return info, nil
}

// parseDF reads the first data row of portable df output:
//
//	Filesystem Type 1024-blocks Used Available Capacity Mounted on
//
// (Type present only with -T). Sizes are 1K blocks. Free is derived as
// total minus used so the capacity fields stay consistent; df's
// Available column excludes blocks reserved for root.
func parseDF(out []byte, withType bool) (*domain.VolumeInfo, error) {
	lines := nonEmptyLines(out)
	if len(lines) < 2 {
		return nil, fmt.Errorf("unexpected df output: %d lines", len(lines))
	}

	fields := strings.Fields(lines[1])
	minFields := 6
	blocksIdx := 1
	fsKind := "unknown"
	if withType {
		minFields = 7
		blocksIdx = 2
	}
	if len(fields) < minFields {
		return nil, fmt.Errorf("unexpected df row: %q", lines[1])
	}
	if withType {
		fsKind = fields[1]
	}

	totalKB, err := strconv.ParseInt(fields[blocksIdx], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing df total %q: %w", fields[blocksIdx], err)
	}
	usedKB, err := strconv.ParseInt(fields[blocksIdx+1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing df used %q: %w", fields[blocksIdx+1], err)
	}

	// Mount points may contain spaces; everything after the capacity
	// column belongs to the mount path.
	mount := strings.Join(fields[blocksIdx+4:], " ")

	total := totalKB * 1024
	used := usedKB * 1024

	return &domain.VolumeInfo{
		TotalBytes: total,
		UsedBytes:  used,
		FreeBytes:  total - used,
		Filesystem: fsKind,
		MountPath:  mount,
	}, nil
}

func nonEmptyLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// timedOut distinguishes a deadline kill from a genuine tool failure.
func timedOut(ctx context.Context, err error) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded)
}
