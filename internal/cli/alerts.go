package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/netdash/netdash/internal/api"
	"github.com/netdash/netdash/internal/dashboard"
	"github.com/netdash/netdash/internal/errors"
	"github.com/netdash/netdash/internal/ui"
)

var (
	alertsWatch    bool
	alertsInterval string
)

// alertsCmd prints active alerts, optionally refreshing in place.
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List active alerts",
	Long: `List currently active alerts with severity, name, and host.

With --watch the list is reprinted on the configured refresh interval
until interrupted.

Examples:
  netdash alerts
  netdash alerts --watch
  netdash alerts --watch --interval 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		interval := cfg.Refresh.Interval
		if alertsInterval != "" {
			parsed, err := time.ParseDuration(alertsInterval)
			if err != nil {
				return errors.WrapWithCode(err, errors.ErrConfig,
					fmt.Sprintf("Invalid interval: %s", alertsInterval),
					"Use a valid duration like 10s or 1m")
			}
			interval = parsed
		}

		client := newClient(cfg)
		if !alertsWatch {
			return alertsCommand(cmd.OutOrStdout(), client, cfg.API.Timeout)
		}
		return watchAlerts(cmd.OutOrStdout(), client, cfg.API.Timeout, interval)
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsWatch, "watch", false, "reprint the list on every refresh interval")
	alertsCmd.Flags().StringVar(&alertsInterval, "interval", "", "refresh interval for --watch (default: refresh.interval from config)")
	rootCmd.AddCommand(alertsCmd)
}

func alertsCommand(w io.Writer, client *api.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	alerts, err := client.Alerts(ctx)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to fetch alerts", api.Detail(err))
	}
	printAlerts(w, alerts)
	return nil
}

func printAlerts(w io.Writer, alerts []api.Alert) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, "No active alerts.")
		return
	}

	columns := []ui.TableColumn{
		{Title: "SEVERITY", Width: 14},
		{Title: "ALERT", Width: 40},
		{Title: "HOST", Width: 20},
	}
	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			dashboard.Severity(a.Severity).Label(),
			a.Name,
			a.Host,
		})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
}

// watchAlerts reprints the alert list on every scheduler tick until the
// process is interrupted.
func watchAlerts(w io.Writer, client *api.Client, timeout, interval time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := dashboard.NewPoller(interval, func(tick context.Context) {
		reqCtx, cancel := context.WithTimeout(tick, timeout)
		defer cancel()

		alerts, err := client.Alerts(reqCtx)
		fmt.Fprintf(w, "--- %s ---\n", time.Now().Format("15:04:05"))
		if err != nil {
			fmt.Fprintln(w, "Failed to fetch alerts: "+api.Detail(err))
			return
		}
		printAlerts(w, alerts)
	})

	poller.Start()
	<-ctx.Done()
	poller.Stop()
	return nil
}
