package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	pruneKeep int

	pruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Delete old scans, keeping the newest per path",
		Args:  cobra.NoArgs,
		RunE:  runPrune,
	}
)

func init() {
	pruneCmd.Flags().IntVarP(&pruneKeep, "keep", "k", 0, "Scans to keep per path (default from config)")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	keep := cfg.History.KeepPerPath
	if cmd.Flags().Changed("keep") {
		keep = pruneKeep
	}
	if keep < 1 {
		return fmt.Errorf("keep must be at least 1")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.Prune(keep)
	if err != nil {
		return err
	}

	if deleted == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to prune.")
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d old scans (keeping %d per path).\n", deleted, keep)
	}
	return nil
}
