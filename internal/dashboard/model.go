// Package dashboard implements the terminal monitoring dashboard: host
// health, metric charts, anomaly and alert lists, and the alert triage
// workflow, driven by a Bubble Tea event loop.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/netdash/netdash/internal/api"
	"github.com/netdash/netdash/internal/logger"
)

// Backend is the slice of the API client the dashboard consumes.
type Backend interface {
	MetricKeys(ctx context.Context) ([]api.HostKeys, error)
	HostStatuses(ctx context.Context) ([]api.HostStatus, error)
	Alerts(ctx context.Context) ([]api.Alert, error)
	Anomalies(ctx context.Context) ([]api.Anomaly, error)
	Metrics(ctx context.Context, hostID string, hours int) ([]api.MetricSample, error)
	Analyze(ctx context.Context, alertID string) (*api.AnalysisResult, error)
	Remediate(ctx context.Context, scriptID, hostID string) (map[string]interface{}, error)
	EmailAlert(ctx context.Context, alertID string) error
}

// Options configures a dashboard model.
type Options struct {
	// Timeout bounds every request the dashboard issues.
	Timeout time.Duration
	// MemoryFallbackGB is the memory-chart capacity when no sample reports
	// a total.
	MemoryFallbackGB float64
	Logger           logger.Logger
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	client  Backend
	log     logger.Logger
	timeout time.Duration

	// Host view
	hosts        []Host
	hostsErr     string
	loadingHosts bool
	selected     int

	// Metrics view for the selected host
	timeRange     TimeRange
	chartTab      ChartTab
	series        []MetricPoint
	seriesGen     int // generation counter; stale responses are discarded
	loadingSeries bool
	seriesErr     string
	fallbackGB    float64

	// Alert and anomaly lists
	alerts       []api.Alert
	alertsErr    string
	alertCursor  int
	anomalies    []api.Anomaly
	anomaliesErr string
	lastUpdate   time.Time

	// Triage dialog
	triage         *Triage
	emailNotice    string
	dialogViewport viewport.Model
	viewportReady  bool

	// Chrome
	width        int
	height       int
	spinnerFrame int
	showHelp     bool
	quitting     bool
}

// Messages

// RefreshMsg asks the model to re-fetch alerts and anomalies. The polling
// scheduler sends it through the running program.
type RefreshMsg struct{}

type hostsMsg struct {
	hosts []Host
	err   error
}

type seriesMsg struct {
	gen    int
	points []MetricPoint
	err    error
}

type alertsMsg struct {
	alerts []api.Alert
	err    error
}

type anomaliesMsg struct {
	anomalies []api.Anomaly
	err       error
}

type analysisMsg struct {
	triggerID string
	result    *api.AnalysisResult
	err       error
}

type remediationMsg struct {
	triggerID string
	data      map[string]interface{}
	err       error
}

type emailSentMsg struct {
	triggerID string
	err       error
}

type spinnerTickMsg time.Time

const spinnerInterval = 150 * time.Millisecond

// NewModel creates a dashboard model backed by the given client.
func NewModel(client Backend, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	fallback := opts.MemoryFallbackGB
	if fallback <= 0 {
		fallback = 16
	}

	return Model{
		client:       client,
		log:          log,
		timeout:      timeout,
		fallbackGB:   fallback,
		loadingHosts: true,
		triage:       NewTriage(),
		selected:     -1,
	}
}

// Init starts the initial host fetch and the spinner animation. Alert and
// anomaly fetches arrive through RefreshMsg from the polling scheduler.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchHostsCmd(),
		m.spinnerTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.handleKey(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case RefreshMsg:
		return m, tea.Batch(m.fetchAlertsCmd(), m.fetchAnomaliesCmd())

	case spinnerTickMsg:
		m.spinnerFrame = (m.spinnerFrame + 1) % 10000
		return m, m.spinnerTickCmd()

	case hostsMsg:
		m.loadingHosts = false
		if msg.err != nil {
			// One failed source fails the whole reconciliation; no host
			// list is rendered over partial data.
			m.hostsErr = api.Detail(msg.err)
			m.hosts = nil
			m.selected = -1
			return m, nil
		}
		m.hostsErr = ""
		m.hosts = msg.hosts
		if m.selected < 0 && len(m.hosts) > 0 {
			m.selected = 0
			return m, m.refetchSeries()
		}
		if m.selected >= len(m.hosts) {
			// Selection moved to a different host, so the visible series
			// must follow it.
			m.selected = len(m.hosts) - 1
			return m, m.refetchSeries()
		}

	case seriesMsg:
		// Only the response matching the currently active (host, range)
		// generation may touch visible state.
		if msg.gen != m.seriesGen {
			m.log.Debug("dropping stale series response (gen %d, want %d)", msg.gen, m.seriesGen)
			return m, nil
		}
		m.loadingSeries = false
		if msg.err != nil {
			m.seriesErr = api.Detail(msg.err)
			m.series = nil
			return m, nil
		}
		m.seriesErr = ""
		m.series = msg.points

	case alertsMsg:
		m.lastUpdate = time.Now()
		if msg.err != nil {
			m.alertsErr = api.Detail(msg.err)
			return m, nil
		}
		m.alertsErr = ""
		m.alerts = msg.alerts
		if m.alertCursor >= len(m.alerts) {
			m.alertCursor = len(m.alerts) - 1
		}
		if m.alertCursor < 0 {
			m.alertCursor = 0
		}

	case anomaliesMsg:
		if msg.err != nil {
			m.anomaliesErr = api.Detail(msg.err)
			return m, nil
		}
		m.anomaliesErr = ""
		m.anomalies = msg.anomalies

	case analysisMsg:
		// A response for a previously triaged alert is dropped.
		if m.triage.State() != TriageAnalyzing || m.triage.Alert().TriggerID != msg.triggerID {
			return m, nil
		}
		if msg.err != nil {
			m.triage.FailAnalysis(api.Detail(msg.err))
		} else {
			m.triage.CompleteAnalysis(msg.result)
		}
		m.syncDialogContent()

	case remediationMsg:
		if m.triage.State() != TriageRemediating || m.triage.Alert().TriggerID != msg.triggerID {
			return m, nil
		}
		if msg.err != nil {
			m.triage.FailRemediation(api.Detail(msg.err))
		} else {
			m.triage.CompleteRemediation(msg.data)
		}
		m.syncDialogContent()

	case emailSentMsg:
		if msg.err != nil {
			m.emailNotice = "Email failed: " + api.Detail(msg.err)
		} else {
			m.emailNotice = "Alert email sent."
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// SelectedHost returns the currently selected host and true, or false when
// no host is selected.
func (m Model) SelectedHost() (Host, bool) {
	if m.selected >= 0 && m.selected < len(m.hosts) {
		return m.hosts[m.selected], true
	}
	return Host{}, false
}

// SecondsSinceUpdate returns how long ago the alert list was refreshed.
func (m Model) SecondsSinceUpdate() int {
	if m.lastUpdate.IsZero() {
		return 0
	}
	return int(time.Since(m.lastUpdate).Seconds())
}

// hostName resolves a host id to its display name, falling back to the id.
func (m Model) hostName(hostID string) string {
	for _, h := range m.hosts {
		if h.ID == hostID {
			return h.Name
		}
	}
	return hostID
}

// selectHost moves the host selection and invalidates the current series.
func (m *Model) selectHost(idx int) tea.Cmd {
	if idx < 0 || idx >= len(m.hosts) || idx == m.selected {
		return nil
	}
	m.selected = idx
	return m.refetchSeries()
}

// cycleRange advances the time range and invalidates the current series.
func (m *Model) cycleRange() tea.Cmd {
	m.timeRange = m.timeRange.Next()
	return m.refetchSeries()
}

// refetchSeries bumps the series generation and starts a fetch for the
// current (host, range) pair. Any response from an older generation is
// discarded on arrival.
func (m *Model) refetchSeries() tea.Cmd {
	host, ok := m.SelectedHost()
	if !ok {
		return nil
	}
	m.seriesGen++
	m.loadingSeries = true
	m.seriesErr = ""
	m.series = nil
	return m.fetchSeriesCmd(m.seriesGen, host.ID, m.timeRange)
}

// Commands. Each creates its own timeout-bounded context: the Bubble Tea
// runtime invokes these on background goroutines.

func (m Model) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.timeout)
}

// fetchHostsCmd fetches both host sources concurrently and reconciles them.
// The merge is all-or-nothing: either source failing fails the whole fetch.
func (m Model) fetchHostsCmd() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			wg       sync.WaitGroup
			keys     []api.HostKeys
			statuses []api.HostStatus
			keysErr  error
			statErr  error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			keys, keysErr = client.MetricKeys(ctx)
		}()
		go func() {
			defer wg.Done()
			statuses, statErr = client.HostStatuses(ctx)
		}()
		wg.Wait()

		if keysErr != nil {
			return hostsMsg{err: keysErr}
		}
		if statErr != nil {
			return hostsMsg{err: statErr}
		}
		return hostsMsg{hosts: Reconcile(keys, statuses, time.Now())}
	}
}

func (m Model) fetchSeriesCmd(gen int, hostID string, r TimeRange) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		samples, err := client.Metrics(ctx, hostID, r.Hours())
		if err != nil {
			return seriesMsg{gen: gen, err: err}
		}
		return seriesMsg{gen: gen, points: BuildSeries(samples, r)}
	}
}

func (m Model) fetchAlertsCmd() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		alerts, err := client.Alerts(ctx)
		return alertsMsg{alerts: alerts, err: err}
	}
}

func (m Model) fetchAnomaliesCmd() tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		anomalies, err := client.Anomalies(ctx)
		return anomaliesMsg{anomalies: anomalies, err: err}
	}
}

func (m Model) analyzeCmd(alert api.Alert) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := client.Analyze(ctx, alert.ID)
		return analysisMsg{triggerID: alert.TriggerID, result: result, err: err}
	}
}

func (m Model) remediateCmd(triggerID, scriptID, hostID string) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		data, err := client.Remediate(ctx, scriptID, hostID)
		return remediationMsg{triggerID: triggerID, data: data, err: err}
	}
}

// emailCmd sends the per-alert notification email. Fire-and-forget: it is
// not gated by the triage state machine and its failure does not touch an
// analysis session.
func (m Model) emailCmd(alert api.Alert) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := client.EmailAlert(ctx, alert.ID)
		return emailSentMsg{triggerID: alert.TriggerID, err: err}
	}
}

func (m Model) spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
