// Package commands implements the metasim CLI's Cobra command tree. The
// persistent --verbose flag, the PersistentPreRun that initializes logging
// and configuration before any subcommand body runs, and the
// Version/Commit/BuildDate ldflags variables are carried over verbatim
// from the teacher's cmd/mcs-mcp/commands/root.go; only the command's
// purpose (drive the SSA engine instead of an MCP server) changes.
package commands

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"metasim/internal/config"
	"metasim/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "metasim",
	Short: "metasim runs a parallel SSA + event-scheduling metapopulation epidemic simulation",
	Long: `metasim drives Gillespie's direct-method stochastic simulation algorithm across a
metapopulation of nodes, interleaved with scheduled intra-node and inter-node
demographic events and a per-day trajectory snapshot.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv("VERBOSE", "true")
		}
		logging.Init()

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("metasim starting")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
