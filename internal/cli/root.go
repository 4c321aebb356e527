// Package cli wires the dusk commands: scan, history, show, compare,
// docker, ask and prune.
package cli

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/duskscan/dusk/internal/adapter/sqlite"
	"github.com/duskscan/dusk/internal/config"
	"github.com/duskscan/dusk/internal/logger"
	"github.com/duskscan/dusk/internal/port"
	"github.com/duskscan/dusk/internal/probe"
	"github.com/duskscan/dusk/internal/scan"
)

var (
	cfgFile  string
	logLevel string

	cfg *config.Config
	log *zap.Logger

	rootCmd = &cobra.Command{
		Use:   "dusk",
		Short: "Disk usage tracker with trend analysis",
		Example: heredoc.Doc(`
			dusk scan              Scan home directory
			dusk scan ~/Projects   Scan a specific path
			dusk scan . -d2 -t10   Depth 2, top 10 dirs
			dusk history           List past scans
			dusk show 3            Show report for scan #3
			dusk compare           Diff last two scans
			dusk docker            Show Docker disk usage
			dusk ask "what can I delete?"   Ask Claude about the last scan
			dusk ask --codex "cleanup?"     Ask Codex instead
			dusk prune             Clean old scan data
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}

			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			if err := logger.Init(level, cfg.Logging.Format); err != nil {
				return err
			}
			log = logger.GetZapLogger()
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.dusk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// Execute runs the CLI.
func Execute(version string) error {
	rootCmd.Version = version
	defer logger.Sync()
	return rootCmd.Execute()
}

func openStore() (*sqlite.Store, error) {
	return sqlite.Open(cfg.Database.Path)
}

func newCoordinator(runner port.Runner) *scan.Coordinator {
	return scan.New(
		probe.NewVolumeInspector(runner, cfg.Probes.GetVolumeTimeout(), log),
		probe.NewDirSizer(runner, cfg.Probes.GetDirSizeTimeout(), log),
		probe.NewLargeFileFinder(runner, cfg.Probes.GetLargeFileTimeout(), log),
		log,
	)
}
