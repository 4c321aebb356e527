package ask

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/duskscan/dusk/internal/docker"
	"github.com/duskscan/dusk/internal/domain"
)

// FormatScanText renders a scan as plain text suitable for a model
// prompt.
func FormatScanText(scan *domain.ScanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Scan #%d of %s at %s (depth %d)\n",
		scan.ID, scan.RootPath, scan.ScannedAt.Format(time.RFC1123), scan.Depth)
	fmt.Fprintf(&b, "Volume %s (%s): %s total, %s used (%.1f%%), %s free\n",
		scan.Volume.MountPath, scan.Volume.Filesystem,
		humanize.IBytes(uint64(scan.Volume.TotalBytes)),
		humanize.IBytes(uint64(scan.Volume.UsedBytes)),
		scan.Volume.UsedPercent(),
		humanize.IBytes(uint64(scan.Volume.FreeBytes)))

	b.WriteString("\nLargest directories:\n")
	if len(scan.TopDirs) == 0 {
		b.WriteString("  (none measured)\n")
	}
	for _, d := range scan.TopDirs {
		fmt.Fprintf(&b, "  %10s  %s\n", humanize.IBytes(uint64(d.SizeBytes)), d.Path)
	}

	fmt.Fprintf(&b, "\nFiles over %s:\n", humanize.IBytes(uint64(scan.MinFileSizeBytes)))
	if len(scan.LargeFiles) == 0 {
		b.WriteString("  (none found)\n")
	}
	for _, f := range scan.LargeFiles {
		fmt.Fprintf(&b, "  %10s  %s\n", humanize.IBytes(uint64(f.SizeBytes)), f.Path)
	}

	for _, w := range scan.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s\n", w)
	}

	return b.String()
}

// FormatDockerText renders a docker report overview as plain text.
func FormatDockerText(report *docker.Report) string {
	var b strings.Builder
	o := report.Overview

	b.WriteString("Docker disk usage:\n")
	fmt.Fprintf(&b, "  Images: %d (%d active), %s total, %s reclaimable\n",
		o.ImagesTotal, o.ImagesActive,
		humanize.Bytes(uint64(o.ImagesSizeBytes)),
		humanize.Bytes(uint64(o.ImagesReclaimable)))
	fmt.Fprintf(&b, "  Containers: %d (%d running), %s\n",
		o.ContainersTotal, o.ContainersActive,
		humanize.Bytes(uint64(o.ContainersSizeBytes)))
	fmt.Fprintf(&b, "  Volumes: %d, %s\n",
		o.VolumesTotal, humanize.Bytes(uint64(o.VolumesSizeBytes)))
	fmt.Fprintf(&b, "  Build cache: %d entries, %s (%s reclaimable)\n",
		o.BuildCacheTotal,
		humanize.Bytes(uint64(o.BuildCacheSizeBytes)),
		humanize.Bytes(uint64(o.BuildCacheReclaimable)))

	return b.String()
}

// BuildPrompt assembles the full prompt handed to the AI CLI.
// dockerText may be empty when no docker data is available.
func BuildPrompt(scan *domain.ScanResult, dockerText, question string) string {
	var b strings.Builder
	b.WriteString("Here is a disk usage report:\n\n")
	b.WriteString(FormatScanText(scan))
	if dockerText != "" {
		b.WriteString("\n")
		b.WriteString(dockerText)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}
