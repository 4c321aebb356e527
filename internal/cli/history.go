package cli

import (
	"github.com/spf13/cobra"

	"github.com/duskscan/dusk/internal/domain"
)

var (
	historyLimit int

	historyCmd = &cobra.Command{
		Use:   "history [PATH]",
		Short: "List past scans, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of scans to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	var root string
	if len(args) > 0 {
		normalized, err := domain.NormalizePath(args[0])
		if err != nil {
			return err
		}
		root = normalized
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	scans, err := store.List(root, historyLimit)
	if err != nil {
		return err
	}

	renderHistory(cmd.OutOrStdout(), scans)
	return nil
}
