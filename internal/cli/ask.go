package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/ask"
	"github.com/duskscan/dusk/internal/docker"
	"github.com/duskscan/dusk/internal/domain"
	"github.com/duskscan/dusk/internal/probe"
)

var (
	askScanID int64
	askCodex  bool

	askCmd = &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask an AI CLI about a stored scan",
		Long: "Hands a stored scan report, plus Docker disk usage when the daemon " +
			"is reachable, to the claude CLI (or codex with --codex) together " +
			"with your question.",
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}
)

func init() {
	askCmd.Flags().Int64Var(&askScanID, "scan-id", 0, "Scan to discuss (default: most recent)")
	askCmd.Flags().BoolVar(&askCodex, "codex", false, "Use the codex CLI instead of claude")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var result *domain.ScanResult
	if askScanID > 0 {
		result, err = store.Get(askScanID)
		if err != nil {
			return err
		}
	} else {
		scans, err := store.List("", 1)
		if err != nil {
			return err
		}
		if len(scans) == 0 {
			return errors.New("no scans recorded yet, run `dusk scan` first")
		}
		result = scans[0]
	}

	// Docker context is best effort; the question still goes out
	// without it.
	var dockerReport *docker.Report
	client := docker.NewClient(probe.NewExecRunner(), 0, log)
	if client.Available() {
		dockerReport, err = client.DiskUsage(cmd.Context())
		if err != nil {
			log.Debug("docker disk usage unavailable", zap.Error(err))
			dockerReport = nil
		}
	}

	tool := ask.ToolClaude
	if askCodex {
		tool = ask.ToolCodex
	}

	if err := ask.Run(cmd.Context(), result, dockerReport, tool, args[0]); err != nil {
		return fmt.Errorf("running %s: %w", tool, err)
	}
	return nil
}
