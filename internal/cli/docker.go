package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/duskscan/dusk/internal/docker"
	"github.com/duskscan/dusk/internal/probe"
)

var dockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Show Docker's disk usage breakdown",
	Args:  cobra.NoArgs,
	RunE:  runDocker,
}

func init() {
	rootCmd.AddCommand(dockerCmd)
}

func runDocker(cmd *cobra.Command, args []string) error {
	client := docker.NewClient(probe.NewExecRunner(), 30*time.Second, log)
	if !client.Available() {
		return fmt.Errorf("docker CLI not found on PATH")
	}

	report, err := client.DiskUsage(cmd.Context())
	if err != nil {
		return err
	}

	renderDocker(cmd.OutOrStdout(), report)
	return nil
}
