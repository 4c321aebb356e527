package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/duskscan/dusk/internal/config"
	"github.com/duskscan/dusk/internal/docker"
	"github.com/duskscan/dusk/internal/domain"
)

var (
	green  = color.New(color.FgGreen).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	bold   = color.New(color.Bold).SprintfFunc()
	faint  = color.New(color.Faint).SprintfFunc()
)

func levelColor(level domain.UsageLevel) func(format string, a ...interface{}) string {
	switch level {
	case domain.UsageRed:
		return red
	case domain.UsageYellow:
		return yellow
	default:
		return green
	}
}

func renderScan(w io.Writer, result *domain.ScanResult, thresholds config.ThresholdConfig) {
	header := fmt.Sprintf("Disk usage for %s", result.RootPath)
	if result.ID > 0 {
		header = fmt.Sprintf("Disk usage for %s (scan #%d)", result.RootPath, result.ID)
	}
	fmt.Fprintln(w, bold("%s", header))
	fmt.Fprintln(w, faint("%s", result.ScannedAt.Local().Format(time.RFC1123)))
	fmt.Fprintln(w)

	vol := result.Volume
	level := vol.Classify(thresholds.WarnPercent, thresholds.CritPercent)
	paint := levelColor(level)
	fmt.Fprintf(w, "Volume %s (%s): %s used of %s (%s), %s free\n",
		vol.MountPath, vol.Filesystem,
		humanize.IBytes(uint64(vol.UsedBytes)),
		humanize.IBytes(uint64(vol.TotalBytes)),
		paint("%.1f%%", vol.UsedPercent()),
		humanize.IBytes(uint64(vol.FreeBytes)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, bold("Largest directories"))
	if len(result.TopDirs) == 0 {
		fmt.Fprintln(w, faint("  (none measured)"))
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, d := range result.TopDirs {
			fmt.Fprintf(tw, "  %s\t%s\n", humanize.IBytes(uint64(d.SizeBytes)), d.Path)
		}
		tw.Flush()
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, bold("Files over %s", humanize.IBytes(uint64(result.MinFileSizeBytes))))
	if len(result.LargeFiles) == 0 {
		fmt.Fprintln(w, faint("  (none found)"))
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, f := range result.LargeFiles {
			fmt.Fprintf(tw, "  %s\t%s\n", humanize.IBytes(uint64(f.SizeBytes)), f.Path)
		}
		tw.Flush()
	}

	for _, warning := range result.Warnings {
		fmt.Fprintln(w)
		fmt.Fprintln(w, yellow("Warning: %s", warning))
	}
}

func renderTrend(w io.Writer, trend *domain.TrendReport) {
	fmt.Fprintf(w, "%s %s\n", bold("Trend since"),
		trend.From.ScannedAt.Local().Format(time.RFC1123))

	if len(trend.DirDeltas) == 0 {
		fmt.Fprintln(w, faint("  (no directories to compare)"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range trend.DirDeltas {
		var note string
		switch {
		case d.New():
			note = "new"
		case d.Removed():
			note = "removed"
		default:
			note = fmt.Sprintf("%+.1f%%", d.DeltaPercent)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", signedBytes(d.DeltaBytes), d.Path, note)
	}
	tw.Flush()

	fmt.Fprintf(w, "  Total: %s\n", signedBytes(trend.TotalDeltaBytes))
}

func renderHistory(w io.Writer, scans []*domain.ScanResult) {
	if len(scans) == 0 {
		fmt.Fprintln(w, faint("No scans recorded yet. Run `dusk scan` first."))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCANNED\tPATH\tUSED\tMEASURED")
	for _, s := range scans {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f%%\t%s\n",
			s.ID,
			s.ScannedAt.Local().Format("2006-01-02 15:04"),
			s.RootPath,
			s.Volume.UsedPercent(),
			humanize.IBytes(uint64(s.TotalScannedBytes())))
	}
	tw.Flush()
}

func renderDocker(w io.Writer, report *docker.Report) {
	o := report.Overview

	fmt.Fprintln(w, bold("Docker disk usage"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Images\t%d (%d active)\t%s\t%s reclaimable\n",
		o.ImagesTotal, o.ImagesActive,
		humanize.Bytes(uint64(o.ImagesSizeBytes)),
		humanize.Bytes(uint64(o.ImagesReclaimable)))
	fmt.Fprintf(tw, "  Containers\t%d (%d running)\t%s\t\n",
		o.ContainersTotal, o.ContainersActive,
		humanize.Bytes(uint64(o.ContainersSizeBytes)))
	fmt.Fprintf(tw, "  Volumes\t%d\t%s\t\n",
		o.VolumesTotal, humanize.Bytes(uint64(o.VolumesSizeBytes)))
	fmt.Fprintf(tw, "  Build cache\t%d entries\t%s\t%s reclaimable\n",
		o.BuildCacheTotal,
		humanize.Bytes(uint64(o.BuildCacheSizeBytes)),
		humanize.Bytes(uint64(o.BuildCacheReclaimable)))
	tw.Flush()

	if len(report.Images) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold("Images"))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, img := range report.Images {
			fmt.Fprintf(tw, "  %s\t%s:%s\t%d containers\n",
				humanize.Bytes(uint64(img.SizeBytes)), img.Repository, img.Tag, img.Containers)
		}
		tw.Flush()
	}

	if len(report.Containers) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold("Containers"))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, ctr := range report.Containers {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				humanize.Bytes(uint64(ctr.SizeBytes)), ctr.Name, ctr.Image, ctr.State)
		}
		tw.Flush()
	}

	if len(report.Volumes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold("Volumes"))
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, vol := range report.Volumes {
			fmt.Fprintf(tw, "  %s\t%s\n", humanize.Bytes(uint64(vol.SizeBytes)), vol.Name)
		}
		tw.Flush()
	}
}

// signedBytes renders a delta with an explicit sign, colored by
// direction. Growth is red, shrinkage green.
func signedBytes(n int64) string {
	switch {
	case n > 0:
		return red("+%s", humanize.IBytes(uint64(n)))
	case n < 0:
		return green("-%s", humanize.IBytes(uint64(-n)))
	default:
		return faint("±0 B")
	}
}
