package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/netdash/netdash/internal/ui"
	"github.com/netdash/netdash/internal/util"
)

// Layout constants
const (
	minDialogWidth  = 40
	maxDialogWidth  = 84
	maxAnomalyRows  = 5
	chartWidthLimit = 72
)

// render assembles the full dashboard frame.
func (m Model) render() string {
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.loadingHosts {
		b.WriteString("\n  " + m.spinner() + " Loading hosts...\n")
		return b.String()
	}
	if m.hostsErr != "" {
		b.WriteString("\n" + errorStyle.Render("  ✗ Failed to load hosts: "+m.hostsErr) + "\n")
		b.WriteString(labelStyle.Render("  Press r to retry, q to quit.") + "\n")
		return b.String()
	}

	if m.triage.State() != TriageIdle {
		b.WriteString(m.renderDialog())
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
		return b.String()
	}

	left := m.renderHostPanel()
	right := m.renderMetricsPanel()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(m.renderAlertPanel())
	b.WriteString("\n")
	b.WriteString(m.renderAnomalyPanel())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) spinner() string {
	return spinnerFrames[m.spinnerFrame%len(spinnerFrames)]
}

func (m Model) renderHeader() string {
	title := headerStyle.Render("netdash")
	sub := labelStyle.Render("network monitoring dashboard")
	age := ""
	if !m.lastUpdate.IsZero() {
		age = labelStyle.Render(fmt.Sprintf("  updated %ds ago", m.SecondsSinceUpdate()))
	}
	return title + " " + sub + age
}

func (m Model) renderHostPanel() string {
	var rows []string
	rows = append(rows, sectionTitleStyle.Render("Hosts"))

	if len(m.hosts) == 0 {
		rows = append(rows, labelStyle.Render("no monitored hosts"))
		return panelStyle.Render(strings.Join(rows, "\n"))
	}

	for i, h := range m.hosts {
		marker := "  "
		if i == m.selected {
			marker = "▸ "
		}
		symbol := lipgloss.NewStyle().Foreground(h.Status.Color()).Render(h.Status.Symbol())
		issues := labelStyle.Render("no issues")
		if n := len(h.Issues); n > 0 {
			issues = errorStyle.Render(fmt.Sprintf("%d %s", n, util.Pluralize(n, "issue", "issues")))
		}
		line := fmt.Sprintf("%s%s %s  %s  %s",
			marker, symbol, valueStyle.Render(h.Name),
			labelStyle.Render(h.LastCheck.Format("15:04:05")), issues)
		if i == m.selected {
			line = selectedRowStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderMetricsPanel() string {
	var rows []string
	rows = append(rows, sectionTitleStyle.Render("Performance Metrics")+"  "+m.renderRangeTabs()+"  "+m.renderChartTabs())

	switch {
	case m.loadingSeries:
		rows = append(rows, m.spinner()+" "+labelStyle.Render("loading metrics..."))
	case m.seriesErr != "":
		rows = append(rows, errorStyle.Render("✗ "+m.seriesErr))
	case len(m.series) == 0:
		rows = append(rows, labelStyle.Render("No metrics available for this host."))
	default:
		rows = append(rows, m.renderChart()...)
		rows = append(rows, m.renderSummaryCards())
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderRangeTabs() string {
	parts := make([]string, 0, 3)
	for _, r := range []TimeRange{Range24h, Range7d, Range30d} {
		if r == m.timeRange {
			parts = append(parts, tabActiveStyle.Render(r.String()))
		} else {
			parts = append(parts, tabInactiveStyle.Render(r.String()))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderChartTabs() string {
	parts := make([]string, 0, 3)
	for _, t := range []ChartTab{TabCPU, TabMemory, TabNetwork} {
		if t == m.chartTab {
			parts = append(parts, tabActiveStyle.Render(t.String()))
		} else {
			parts = append(parts, tabInactiveStyle.Render(t.String()))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) chartWidth() int {
	w := m.width/2 - 8
	if w < 16 {
		w = 16
	}
	if w > chartWidthLimit {
		w = chartWidthLimit
	}
	return w
}

// renderChart draws the active metric as a sparkline with a range footer.
func (m Model) renderChart() []string {
	width := m.chartWidth()
	first := m.series[0].TimeLabel
	last := m.series[len(m.series)-1].TimeLabel
	axis := labelStyle.Render(first) + strings.Repeat(" ", max(1, width-len(first)-len(last))) + labelStyle.Render(last)

	switch m.chartTab {
	case TabMemory:
		values := collect(m.series, SelectMemoryGB)
		capGB := MemoryCap(m.series, m.fallbackGB)
		latest := values[len(values)-1]
		color := ui.ThresholdColor(latest / capGB * 100)
		return []string{
			ui.RenderSparkline(values, width, color),
			axis,
			labelStyle.Render(fmt.Sprintf("scale 0–%.2f GB", capGB)),
		}
	case TabNetwork:
		in := collect(m.series, SelectNetworkIn)
		out := collect(m.series, SelectNetworkOut)
		return []string{
			labelStyle.Render("in  ") + ui.RenderSparkline(in, width-4, ui.ColorInfo),
			labelStyle.Render("out ") + ui.RenderSparkline(out, width-4, ui.ColorSecondary),
			axis,
		}
	default:
		values := collect(m.series, SelectCPU)
		color := ui.ThresholdColor(values[len(values)-1])
		return []string{
			ui.RenderSparkline(values, width, color),
			axis,
			labelStyle.Render("scale 0–100%"),
		}
	}
}

// renderSummaryCards shows last values with their trend deltas.
func (m Model) renderSummaryCards() string {
	cpu, _ := Latest(m.series, SelectCPU)
	mem, _ := Latest(m.series, SelectMemoryGB)
	in, _ := Latest(m.series, SelectNetworkIn)
	out, _ := Latest(m.series, SelectNetworkOut)

	cards := []string{
		fmt.Sprintf("%s %s %s", labelStyle.Render("CPU"), valueStyle.Render(fmt.Sprintf("%.1f%%", cpu)), formatTrend(Trend(m.series, SelectCPU))),
		fmt.Sprintf("%s %s %s", labelStyle.Render("Mem"), valueStyle.Render(fmt.Sprintf("%.2f GB", mem)), formatTrend(Trend(m.series, SelectMemoryGB))),
		fmt.Sprintf("%s %s %s", labelStyle.Render("In"), valueStyle.Render(fmt.Sprintf("%.2f KB/s", in)), formatTrend(Trend(m.series, SelectNetworkIn))),
		fmt.Sprintf("%s %s %s", labelStyle.Render("Out"), valueStyle.Render(fmt.Sprintf("%.2f KB/s", out)), formatTrend(Trend(m.series, SelectNetworkOut))),
	}
	return strings.Join(cards, "  │  ")
}

// formatTrend renders a signed one-decimal delta with a direction arrow.
// Zero renders unstyled; rising usage is highlighted as bad.
func formatTrend(trend float64) string {
	if trend == 0 {
		return labelStyle.Render("0.0")
	}
	if trend > 0 {
		return trendUpStyle.Render(fmt.Sprintf("+%.1f ↑", trend))
	}
	return trendDownStyle.Render(fmt.Sprintf("%.1f ↓", trend))
}

func (m Model) renderAlertPanel() string {
	var rows []string
	title := sectionTitleStyle.Render("System Alerts")
	if m.alertsErr != "" {
		rows = append(rows, title, errorStyle.Render("✗ Failed to load alerts: "+m.alertsErr))
		return panelStyle.Render(strings.Join(rows, "\n"))
	}
	rows = append(rows, title)

	if len(m.alerts) == 0 {
		rows = append(rows, successStyle.Render("✓")+" "+labelStyle.Render("No active alerts."))
		return panelStyle.Render(strings.Join(rows, "\n"))
	}

	for i, a := range m.alerts {
		marker := "  "
		if i == m.alertCursor {
			marker = "▸ "
		}
		sev := Severity(a.Severity)
		chip := lipgloss.NewStyle().Foreground(sev.Color()).Render("[" + sev.Label() + "]")
		line := fmt.Sprintf("%s%s %s  %s", marker, chip, valueStyle.Render(a.Name), labelStyle.Render("Host: "+a.Host))
		if i == m.alertCursor {
			line = selectedRowStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderAnomalyPanel() string {
	var rows []string
	title := sectionTitleStyle.Render("Detected Anomalies")
	if m.anomaliesErr != "" {
		rows = append(rows, title, errorStyle.Render("✗ Failed to fetch anomalies: "+m.anomaliesErr))
		return panelStyle.Render(strings.Join(rows, "\n"))
	}
	rows = append(rows, title)

	if len(m.anomalies) == 0 {
		rows = append(rows, labelStyle.Render("No anomalies detected recently."))
		return panelStyle.Render(strings.Join(rows, "\n"))
	}

	shown := m.anomalies
	if len(shown) > maxAnomalyRows {
		shown = shown[:maxAnomalyRows]
	}
	for _, a := range shown {
		rows = append(rows, fmt.Sprintf("%s  %s  %s  %s  %s",
			labelStyle.Render(a.Timestamp.Format("2006-01-02 15:04:05")),
			valueStyle.Render(m.hostName(a.HostID)),
			valueStyle.Render(a.ItemKey),
			errorStyle.Render(fmt.Sprintf("%.2f", a.Value)),
			labelStyle.Render(a.Reason)))
	}
	if hidden := len(m.anomalies) - len(shown); hidden > 0 {
		rows = append(rows, labelStyle.Render(fmt.Sprintf("… and %d more", hidden)))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderFooter() string {
	parts := []string{
		"↑/↓ host", "t range", "tab chart", "n/p alert", "a analyze", "e email", "r refresh", "? help", "q quit",
	}
	line := footerStyle.Render(strings.Join(parts, " · "))
	if m.emailNotice != "" {
		line += "  " + labelStyle.Render(m.emailNotice)
	}
	return line
}

func (m Model) renderHelp() string {
	lines := []string{
		sectionTitleStyle.Render("netdash keys"),
		"",
		"  ↑/k, ↓/j     select host",
		"  t            cycle time range (24h → 7d → 30d)",
		"  tab          cycle chart (CPU → Memory → Network)",
		"  n, p         next/previous alert",
		"  a / enter    analyze alert under cursor",
		"  e            email alert under cursor",
		"  x            run remediation (in analysis dialog)",
		"  esc          close dialog / help",
		"  r            refresh everything",
		"  q            quit",
	}
	return strings.Join(lines, "\n")
}

// Triage dialog

// resizeViewport sizes the dialog viewport to the terminal.
func (m *Model) resizeViewport() {
	w := m.width - 8
	if w > maxDialogWidth {
		w = maxDialogWidth
	}
	if w < minDialogWidth {
		w = minDialogWidth
	}
	h := m.height - 10
	if h < 5 {
		h = 5
	}

	if !m.viewportReady {
		m.dialogViewport = viewport.New(w, h)
		m.viewportReady = true
	} else {
		m.dialogViewport.Width = w
		m.dialogViewport.Height = h
	}
	if m.triage.State() != TriageIdle {
		m.syncDialogContent()
	}
}

// syncDialogContent rebuilds the dialog viewport content from the triage
// session.
func (m *Model) syncDialogContent() {
	if !m.viewportReady {
		m.resizeViewport()
	}
	m.dialogViewport.SetContent(m.dialogBody())
}

func (m Model) dialogBody() string {
	var b strings.Builder

	analysis := m.triage.Analysis()
	if m.triage.State() == TriageAnalyzing || analysis == nil {
		return m.spinner() + " Analyzing..."
	}

	if analysis.Err {
		b.WriteString(errorStyle.Render("✗ " + analysis.Analysis))
		b.WriteString("\n")
	} else {
		b.WriteString(sectionTitleStyle.Render("Analysis"))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(analysis.Analysis))
		b.WriteString("\n")
	}

	if len(analysis.RootCauses) > 0 {
		b.WriteString("\n" + sectionTitleStyle.Render("Potential Root Causes") + "\n")
		for _, cause := range analysis.RootCauses {
			b.WriteString("  › " + cause + "\n")
		}
	}
	if len(analysis.Recommendations) > 0 {
		b.WriteString("\n" + sectionTitleStyle.Render("Recommended Actions") + "\n")
		for _, rec := range analysis.Recommendations {
			b.WriteString("  › " + rec + "\n")
		}
	}

	if outcome := m.triage.Remediation(); outcome != nil {
		b.WriteString("\n")
		if outcome.Success {
			b.WriteString(successStyle.Render(fmt.Sprintf("✓ Remediation successful: %v", outcome.Data)))
		} else {
			b.WriteString(errorStyle.Render("✗ Remediation failed: " + outcome.Message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDialog() string {
	title := sectionTitleStyle.Render("AI Analysis: " + m.triage.Alert().Name)

	var footer string
	switch {
	case m.triage.State() == TriageRemediating:
		footer = labelStyle.Render(m.spinner() + " remediating...  esc close")
	case m.triage.CanRemediate():
		footer = labelStyle.Render("x run remediation · esc close")
	default:
		footer = labelStyle.Render("esc close")
	}

	body := m.dialogViewport.View()
	if !m.viewportReady {
		body = m.dialogBody()
	}
	return dialogStyle.Render(title + "\n\n" + body + "\n\n" + footer)
}

// collect extracts one metric from every point.
func collect(points []MetricPoint, get func(MetricPoint) float64) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = get(p)
	}
	return out
}
