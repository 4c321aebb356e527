package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/domain"
	"github.com/duskscan/dusk/internal/probe"
	"github.com/duskscan/dusk/internal/scan"
)

var (
	scanDepth     int
	scanTop       int
	scanFiles     int
	scanMinSize   string
	scanNoHistory bool
	scanNoTrend   bool

	scanCmd = &cobra.Command{
		Use:   "scan [PATH]",
		Short: "Scan disk usage and show results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
)

func init() {
	scanCmd.Flags().IntVarP(&scanDepth, "depth", "d", 1, "Directory depth for scanning")
	scanCmd.Flags().IntVarP(&scanTop, "top", "t", 20, "Number of top directories to show")
	scanCmd.Flags().IntVarP(&scanFiles, "files", "f", 10, "Number of large files to show")
	scanCmd.Flags().StringVar(&scanMinSize, "min-size", "100MB", "Minimum large-file size (e.g. 500MB, 1GB)")
	scanCmd.Flags().BoolVar(&scanNoHistory, "no-history", false, "Don't save this scan to history")
	scanCmd.Flags().BoolVar(&scanNoTrend, "no-trend", false, "Don't show trend comparison")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	path := "~"
	if len(args) > 0 {
		path = args[0]
	}

	// Config supplies defaults for flags the user didn't set.
	opts := scan.Options{
		Depth:            cfg.Scan.Depth,
		TopDirs:          cfg.Scan.TopDirs,
		LargeFiles:       cfg.Scan.LargeFiles,
		MinFileSizeBytes: cfg.Scan.MinFileSizeBytes(),
	}
	if cmd.Flags().Changed("depth") {
		opts.Depth = scanDepth
	}
	if cmd.Flags().Changed("top") {
		opts.TopDirs = scanTop
	}
	if cmd.Flags().Changed("files") {
		opts.LargeFiles = scanFiles
	}
	if cmd.Flags().Changed("min-size") {
		size, err := humanize.ParseBytes(scanMinSize)
		if err != nil {
			return fmt.Errorf("invalid min-size: %w", err)
		}
		opts.MinFileSizeBytes = int64(size)
	}

	showStatus := isatty.IsTerminal(os.Stderr.Fd())
	if showStatus {
		fmt.Fprintf(os.Stderr, "Scanning %s...", path)
	}

	coordinator := newCoordinator(probe.NewExecRunner())
	result, err := coordinator.Scan(cmd.Context(), path, opts)

	if showStatus {
		fmt.Fprint(os.Stderr, "\r\033[2K")
	}
	if err != nil {
		return err
	}

	var trend *domain.TrendReport
	if !scanNoHistory {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := store.Save(result); err != nil {
			return fmt.Errorf("saving scan: %w", err)
		}

		if !scanNoTrend {
			older, newer, err := store.LatestTwo(result.RootPath)
			switch {
			case errors.Is(err, domain.ErrInsufficientHistory):
				// First scan of this path; nothing to compare yet.
			case err != nil:
				log.Warn("trend lookup failed", zap.Error(err))
			default:
				trend, err = domain.Compare(older, newer)
				if err != nil {
					log.Warn("trend comparison failed", zap.Error(err))
				}
			}
		}
	}

	out := cmd.OutOrStdout()
	renderScan(out, result, cfg.Thresholds)
	if trend != nil {
		fmt.Fprintln(out)
		renderTrend(out, trend)
	}
	return nil
}
