package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/acuity/internal/config"
	"github.com/abhisek/acuity/internal/logging"
	"github.com/abhisek/acuity/internal/staircase"
	"github.com/abhisek/acuity/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "acuity",
	Short: "Adaptive visual acuity test",
	Long: "Acuity shows optotypes of shrinking size and adjusts the level with a " +
		"staircase until it finds the smallest size you can read.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides ACUITY_DB env var)")
	pf.String("config", "", "Path to a YAML ladder/config file (overrides ACUITY_LADDER env var)")
	pf.String("log", "", "Path to the log file (overrides ACUITY_LOG env var)")
	pf.Bool("verbose", false, "Log debug detail (same as ACUITY_DEBUG=1)")
	rootCmd.Flags().String("name", "", "Participant name for the console fallback when stdin is not a terminal")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(ladderCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then ACUITY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveLogPath works like resolveDBPath with --log and ACUITY_LOG.
func resolveLogPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("log"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultLogPath()
}

// resolveConfig loads the test configuration from --config, ACUITY_LADDER
// and the ACUITY_* overrides.
func resolveConfig(cmd *cobra.Command) (staircase.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Resolve(path)
	if err != nil {
		return staircase.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the file logger. The returned func flushes it.
func newLogger(cmd *cobra.Command) (*zap.Logger, func(), error) {
	path, err := resolveLogPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve log path: %w", err)
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, closeFn, err := logging.New(path, verbose || logging.VerboseFromEnv())
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return logger, closeFn, nil
}

// openStore opens the result store at the resolved DB path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
