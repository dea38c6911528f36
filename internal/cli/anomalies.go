package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/netdash/netdash/internal/api"
	"github.com/netdash/netdash/internal/errors"
	"github.com/netdash/netdash/internal/ui"
	"github.com/netdash/netdash/internal/util"
)

// anomaliesCmd prints recently detected anomalies.
var anomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "List recently detected anomalies",
	Long: `List metric values the backend's statistical detector flagged as
anomalous. Host ids are resolved to display names where the host list
allows it.

Examples:
  netdash anomalies`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return anomaliesCommand(cmd.OutOrStdout(), newClient(cfg), cfg.API.Timeout)
	},
}

func init() {
	rootCmd.AddCommand(anomaliesCmd)
}

func anomaliesCommand(w io.Writer, client *api.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	anomalies, err := client.Anomalies(ctx)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to fetch anomalies", api.Detail(err))
	}
	if len(anomalies) == 0 {
		fmt.Fprintln(w, "No anomalies detected recently.")
		return nil
	}

	// Name resolution is a nicety; an unreachable host list still prints
	// the raw ids.
	names := map[string]string{}
	if hosts, err := fetchHosts(ctx, client); err == nil {
		for _, h := range hosts {
			names[h.ID] = h.Name
		}
	}
	resolve := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}

	columns := []ui.TableColumn{
		{Title: "TIME", Width: 20},
		{Title: "HOST", Width: 20},
		{Title: "METRIC", Width: 24},
		{Title: "VALUE", Width: 12},
		{Title: "REASON", Width: 36},
	}
	rows := make([][]string, 0, len(anomalies))
	for _, a := range anomalies {
		rows = append(rows, []string{
			a.Timestamp.Format("2006-01-02 15:04:05"),
			resolve(a.HostID),
			a.ItemKey,
			fmt.Sprintf("%.2f", a.Value),
			util.Truncate(a.Reason, 36),
		})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
	return nil
}
