package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/netdash/netdash/internal/config"
	"github.com/netdash/netdash/internal/errors"
)

var (
	initURLFlag string
	initGlobal  bool
	initForce   bool
)

// initCmd creates a netdash config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a netdash config file",
	Long: `Create a config file with the backend URL and refresh settings.

By default the file is written as .netdash.yaml in the current
directory; --global writes ~/.config/netdash/config.yaml instead. On a
terminal an interactive form collects the values; otherwise --url is
required.

Examples:
  netdash init
  netdash init --url http://monitor.local:8000
  netdash init --global --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initURLFlag, initGlobal, initForce)
	},
}

func init() {
	initCmd.Flags().StringVar(&initURLFlag, "url", "", "backend base URL")
	initCmd.Flags().BoolVar(&initGlobal, "global", false, "write the global config instead of the local one")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

func initCommand(url string, global, force bool) error {
	path := config.ConfigFileName
	if global {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot determine home directory",
				"Run without --global to write a local config")
		}
		path = filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile)
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", path),
			"Use --force to overwrite")
	}

	cfg := config.DefaultConfig()
	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	switch {
	case url != "":
		cfg.API.URL = url
	case interactive:
		var err error
		cfg, err = initForm(cfg)
		if err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrConfig,
			"Backend URL is required without a terminal",
			"Provide --url or run interactively")
	}

	if err := config.Write(cfg, path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// initForm collects config values interactively.
func initForm(defaults *config.Config) (*config.Config, error) {
	url := defaults.API.URL
	interval := defaults.Refresh.Interval.String()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL of the monitoring backend").
				Placeholder("http://monitor.local:8000").
				Value(&url).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("backend URL is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Refresh interval").
				Description("How often alerts and anomalies refresh (e.g. 60s, 2m)").
				Value(&interval).
				Validate(func(s string) error {
					d, err := time.ParseDuration(strings.TrimSpace(s))
					if err != nil || d <= 0 {
						return fmt.Errorf("use a positive duration like 60s")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Pass --url to skip the prompts")
	}

	cfg := defaults
	cfg.API.URL = strings.TrimSpace(url)
	cfg.Refresh.Interval, _ = time.ParseDuration(strings.TrimSpace(interval))
	return cfg, nil
}
