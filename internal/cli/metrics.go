package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/netdash/netdash/internal/api"
	"github.com/netdash/netdash/internal/dashboard"
	"github.com/netdash/netdash/internal/errors"
	"github.com/netdash/netdash/internal/ui"
)

var metricsRange string

// metricsCmd prints the metric series for one host.
var metricsCmd = &cobra.Command{
	Use:   "metrics <host>",
	Short: "Show metric series for a host",
	Long: `Print the normalized metric series for one host: CPU percent, memory
in GB, and network throughput in KB/s, bucketed over the selected time
range.

The host may be given by id or by display name. On a terminal the
summary includes sparkline charts sized to the window.

Examples:
  netdash metrics web-01
  netdash metrics web-01 --range 7d`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		r, err := parseRange(metricsRange)
		if err != nil {
			return err
		}
		return metricsCommand(cmd.OutOrStdout(), newClient(cfg), cfg.API.Timeout, args[0], r, cfg.Memory.FallbackGB)
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsRange, "range", "24h", "time range: 24h, 7d, or 30d")
	rootCmd.AddCommand(metricsCmd)
}

// parseRange maps the --range flag to a time range.
func parseRange(s string) (dashboard.TimeRange, error) {
	switch strings.ToLower(s) {
	case "24h":
		return dashboard.Range24h, nil
	case "7d":
		return dashboard.Range7d, nil
	case "30d":
		return dashboard.Range30d, nil
	}
	return 0, errors.New(errors.ErrConfig,
		fmt.Sprintf("Invalid range %q", s),
		"Use one of: 24h, 7d, 30d")
}

func metricsCommand(w io.Writer, client *api.Client, timeout time.Duration, host string, r dashboard.TimeRange, fallbackGB float64) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	hostID, err := resolveHost(ctx, client, host)
	if err != nil {
		return err
	}

	samples, err := client.Metrics(ctx, hostID, r.Hours())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			"Failed to fetch metrics for "+host, api.Detail(err))
	}
	series := dashboard.BuildSeries(samples, r)
	if len(series) == 0 {
		fmt.Fprintln(w, "No metrics available for this host.")
		return nil
	}

	printSummary(w, series, fallbackGB)

	columns := []ui.TableColumn{
		{Title: "TIME", Width: 12},
		{Title: "CPU %", Width: 8},
		{Title: "MEM GB", Width: 8},
		{Title: "IN KB/s", Width: 10},
		{Title: "OUT KB/s", Width: 10},
	}
	rows := make([][]string, 0, len(series))
	for _, p := range series {
		rows = append(rows, []string{
			p.TimeLabel,
			fmt.Sprintf("%.1f", p.CPU),
			fmt.Sprintf("%.2f", p.MemoryGB),
			fmt.Sprintf("%.2f", p.NetworkInKB),
			fmt.Sprintf("%.2f", p.NetworkOutKB),
		})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
	return nil
}

// resolveHost accepts a host id or display name and returns the id.
func resolveHost(ctx context.Context, client *api.Client, host string) (string, error) {
	hosts, err := fetchHosts(ctx, client)
	if err != nil {
		return "", err
	}
	for _, h := range hosts {
		if h.ID == host || h.Name == host {
			return h.ID, nil
		}
	}
	return "", errors.New(errors.ErrData,
		fmt.Sprintf("Unknown host %q", host),
		"Run 'netdash hosts' to list monitored hosts")
}

// printSummary prints latest values with trends, plus sparklines when
// stdout is a terminal.
func printSummary(w io.Writer, series []dashboard.MetricPoint, fallbackGB float64) {
	cpu, _ := dashboard.Latest(series, dashboard.SelectCPU)
	mem, _ := dashboard.Latest(series, dashboard.SelectMemoryGB)
	in, _ := dashboard.Latest(series, dashboard.SelectNetworkIn)
	out, _ := dashboard.Latest(series, dashboard.SelectNetworkOut)
	capGB := dashboard.MemoryCap(series, fallbackGB)

	fmt.Fprintf(w, "CPU %.1f%%  Mem %.2f/%.2f GB  In %.2f KB/s  Out %.2f KB/s\n",
		cpu, mem, capGB, in, out)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 32 {
		width = 80
	}
	chartWidth := width - 8

	values := func(get func(dashboard.MetricPoint) float64) []float64 {
		out := make([]float64, len(series))
		for i, p := range series {
			out[i] = get(p)
		}
		return out
	}

	fmt.Fprintf(w, "cpu  %s\n", ui.RenderSparkline(values(dashboard.SelectCPU), chartWidth, ui.ThresholdColor(cpu)))
	fmt.Fprintf(w, "mem  %s\n", ui.RenderSparkline(values(dashboard.SelectMemoryGB), chartWidth, ui.ThresholdColor(mem/capGB*100)))
	fmt.Fprintf(w, "in   %s\n", ui.RenderSparkline(values(dashboard.SelectNetworkIn), chartWidth, ui.ColorInfo))
	fmt.Fprintf(w, "out  %s\n", ui.RenderSparkline(values(dashboard.SelectNetworkOut), chartWidth, ui.ColorSecondary))
}
