package cli

import (
	"github.com/spf13/cobra"

	"github.com/duskscan/dusk/internal/domain"
)

var compareCmd = &cobra.Command{
	Use:   "compare [PATH]",
	Short: "Diff the two most recent scans of a path",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	path := "~"
	if len(args) > 0 {
		path = args[0]
	}
	root, err := domain.NormalizePath(path)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	older, newer, err := store.LatestTwo(root)
	if err != nil {
		return err
	}

	trend, err := domain.Compare(older, newer)
	if err != nil {
		return err
	}

	renderTrend(cmd.OutOrStdout(), trend)
	return nil
}
