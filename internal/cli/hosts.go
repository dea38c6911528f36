package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/netdash/netdash/internal/api"
	"github.com/netdash/netdash/internal/dashboard"
	"github.com/netdash/netdash/internal/errors"
	"github.com/netdash/netdash/internal/ui"
	"github.com/netdash/netdash/internal/util"
)

// hostsCmd prints the reconciled host list.
var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List monitored hosts with live status",
	Long: `List every host the backend has metrics for, merged with live health
status. Hosts without a health record show as unknown.

Examples:
  netdash hosts
  netdash hosts --api-url http://monitor.local:8000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return hostsCommand(cmd.OutOrStdout(), newClient(cfg), cfg.API.Timeout)
	},
}

func init() {
	rootCmd.AddCommand(hostsCmd)
}

// fetchHosts pulls both host sources and reconciles them. Either source
// failing fails the whole fetch; a partial merge is never returned.
func fetchHosts(ctx context.Context, client *api.Client) ([]dashboard.Host, error) {
	keys, err := client.MetricKeys(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to fetch host inventory",
			"Check that the backend is reachable: "+api.Detail(err))
	}
	statuses, err := client.HostStatuses(ctx)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to fetch host status",
			"Check that the backend is reachable: "+api.Detail(err))
	}
	return dashboard.Reconcile(keys, statuses, time.Now()), nil
}

func hostsCommand(w io.Writer, client *api.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	hosts, err := fetchHosts(ctx, client)
	if err != nil {
		return err
	}
	if len(hosts) == 0 {
		fmt.Fprintln(w, "No monitored hosts.")
		return nil
	}

	columns := []ui.TableColumn{
		{Title: "NAME", Width: 20},
		{Title: "STATUS", Width: 10},
		{Title: "LAST CHECK", Width: 20},
		{Title: "ISSUES", Width: 40},
	}
	rows := make([][]string, 0, len(hosts))
	for _, h := range hosts {
		rows = append(rows, []string{
			h.Name,
			h.Status.String(),
			h.LastCheck.Format("2006-01-02 15:04:05"),
			util.Truncate(util.JoinOrDefault(h.Issues, "-"), 40),
		})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
	return nil
}
