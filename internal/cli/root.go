package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netdash/netdash/internal/api"
	"github.com/netdash/netdash/internal/config"
	"github.com/netdash/netdash/internal/logger"
)

// Global flags
var (
	configFlag  string
	apiURLFlag  string
	verboseFlag bool
)

// rootCmd is the base command. Running it with no subcommand starts the
// TUI dashboard.
var rootCmd = &cobra.Command{
	Use:   "netdash",
	Short: "Terminal dashboard for the network monitoring backend",
	Long: `netdash is a terminal client for the network monitoring backend.

Run it with no arguments to open the interactive dashboard: host health,
metric charts, active alerts with AI-assisted triage, and detected
anomalies, refreshed in the background.

Subcommands print the same data as plain tables for scripts and quick
checks.

Examples:
  netdash
  netdash hosts
  netdash alerts --watch
  netdash metrics web-01 --range 7d`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return dashCommand(cfg)
	},
}

// Execute runs the root command. Errors are printed with their suggestion
// and the process exits non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path (default: .netdash.yaml, then ~/.config/netdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// loadConfig loads the effective config: file (or defaults), then flag
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if apiURLFlag != "" {
		cfg.API.URL = apiURLFlag
	}
	return cfg, nil
}

// newLogger returns the logger for this invocation. --verbose forces debug
// output regardless of NETDASH_DEBUG.
func newLogger() logger.Logger {
	if verboseFlag {
		os.Setenv("NETDASH_DEBUG", "1")
	}
	return logger.NewEnvLogger("netdash")
}

// newClient builds the backend client from loaded config.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.API.URL, cfg.API.Timeout, newLogger())
}
