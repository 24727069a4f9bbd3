package commands

import (
	"context"
	"fmt"

	"sprintlens/internal/analysis"
	"sprintlens/internal/config"
	"sprintlens/internal/logging"
	"sprintlens/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	offline bool
	cfg     *config.AppConfig
	svc     *analysis.Service
)

var rootCmd = &cobra.Command{
	Use:   "sprintlens",
	Short: "Sprint analytics for Azure DevOps boards",
	Long: `sprintlens classifies work items by keyword heuristics and aggregates sprint progress:
burndown/burnup series, cycle time, category breakdown and the top-contributor score.

Without a subcommand it runs as an MCP server over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if offline {
			cfg.Offline = true
		}
		svc = analysis.NewService(cfg)

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Bool("offline", cfg.Offline).
			Int("sprints", len(cfg.Catalog.Sprints)).
			Msg("sprintlens starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveMCP(cmd.Context())
	},
}

func serveMCP(ctx context.Context) error {
	return mcp.NewServer(svc, Version).Serve(ctx)
}

// ExecuteContext runs the command tree with ctx as the base context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "read sprint snapshots only, never call Azure DevOps")
}
