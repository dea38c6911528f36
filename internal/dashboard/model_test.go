package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdash/netdash/internal/api"
)

// fakeBackend is a scriptable Backend that counts requests.
type fakeBackend struct {
	metricKeys   []api.HostKeys
	statuses     []api.HostStatus
	alerts       []api.Alert
	anomalies    []api.Anomaly
	samples      map[string][]api.MetricSample
	analysis     *api.AnalysisResult
	remediation  map[string]interface{}
	err          error
	analyzeCalls atomic.Int64
	remedyCalls  atomic.Int64
	emailCalls   atomic.Int64
}

func (f *fakeBackend) MetricKeys(ctx context.Context) ([]api.HostKeys, error) {
	return f.metricKeys, f.err
}

func (f *fakeBackend) HostStatuses(ctx context.Context) ([]api.HostStatus, error) {
	return f.statuses, f.err
}

func (f *fakeBackend) Alerts(ctx context.Context) ([]api.Alert, error) {
	return f.alerts, f.err
}

func (f *fakeBackend) Anomalies(ctx context.Context) ([]api.Anomaly, error) {
	return f.anomalies, f.err
}

func (f *fakeBackend) Metrics(ctx context.Context, hostID string, hours int) ([]api.MetricSample, error) {
	return f.samples[hostID], f.err
}

func (f *fakeBackend) Analyze(ctx context.Context, alertID string) (*api.AnalysisResult, error) {
	f.analyzeCalls.Add(1)
	return f.analysis, f.err
}

func (f *fakeBackend) Remediate(ctx context.Context, scriptID, hostID string) (map[string]interface{}, error) {
	f.remedyCalls.Add(1)
	return f.remediation, f.err
}

func (f *fakeBackend) EmailAlert(ctx context.Context, alertID string) error {
	f.emailCalls.Add(1)
	return f.err
}

func newTestModel(backend *fakeBackend) Model {
	return NewModel(backend, Options{Timeout: time.Second})
}

// apply runs a message through Update and returns the refreshed model.
func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next, cmd
}

func TestHostsMsgSelectsFirstHost(t *testing.T) {
	m := newTestModel(&fakeBackend{})

	hosts := []Host{{ID: "h1", Name: "web-01"}, {ID: "h2", Name: "db-01"}}
	m, cmd := apply(t, m, hostsMsg{hosts: hosts})

	assert.False(t, m.loadingHosts)
	selected, ok := m.SelectedHost()
	require.True(t, ok)
	assert.Equal(t, "h1", selected.ID)
	// Selecting a host starts a series fetch.
	assert.NotNil(t, cmd)
	assert.True(t, m.loadingSeries)
}

func TestHostsMsgErrorAbortsWholeMerge(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = apply(t, m, hostsMsg{hosts: []Host{{ID: "h1"}}})

	m, _ = apply(t, m, hostsMsg{err: errors.New("status fetch failed")})

	// No partial rendering: the host list is cleared with the error.
	assert.Equal(t, "status fetch failed", m.hostsErr)
	assert.Empty(t, m.hosts)
	_, ok := m.SelectedHost()
	assert.False(t, ok)
}

func TestShrunkHostListRefetchesSeries(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = apply(t, m, hostsMsg{hosts: []Host{
		{ID: "h1", Name: "web-01"}, {ID: "h2", Name: "db-01"}, {ID: "h3", Name: "cache-01"},
	}})

	mp := &m
	mp.selectHost(2)
	prevGen := m.seriesGen

	// A refresh drops the selected host, so the selection moves and the
	// series panel must load the new host's data.
	m, cmd := apply(t, m, hostsMsg{hosts: []Host{
		{ID: "h1", Name: "web-01"}, {ID: "h2", Name: "db-01"},
	}})

	selected, ok := m.SelectedHost()
	require.True(t, ok)
	assert.Equal(t, "h2", selected.ID)
	assert.NotNil(t, cmd)
	assert.True(t, m.loadingSeries)
	assert.NotEqual(t, prevGen, m.seriesGen)
}

func TestStaleSeriesResponseDiscarded(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)
	m, _ = apply(t, m, hostsMsg{hosts: []Host{{ID: "h1"}, {ID: "h2"}}})
	firstGen := m.seriesGen

	// Switch host and range before the first response lands.
	mp := &m
	mp.selectHost(1)
	mp.cycleRange()
	require.Equal(t, Range7d, m.timeRange)
	finalGen := m.seriesGen
	require.NotEqual(t, firstGen, finalGen)

	// h1's late 24h response arrives: discarded.
	stale := []MetricPoint{{TimeLabel: "10:00", CPU: 11}}
	m, _ = apply(t, m, seriesMsg{gen: firstGen, points: stale})
	assert.True(t, m.loadingSeries)
	assert.Empty(t, m.series)

	// The response for the active (host, range) pair applies.
	fresh := []MetricPoint{{TimeLabel: "Jun 1", CPU: 77}}
	m, _ = apply(t, m, seriesMsg{gen: finalGen, points: fresh})
	assert.False(t, m.loadingSeries)
	require.Len(t, m.series, 1)
	assert.Equal(t, 77.0, m.series[0].CPU)
}

func TestSeriesErrorState(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = apply(t, m, hostsMsg{hosts: []Host{{ID: "h1"}}})

	m, _ = apply(t, m, seriesMsg{gen: m.seriesGen, err: errors.New("backend down")})

	assert.False(t, m.loadingSeries)
	assert.Equal(t, "backend down", m.seriesErr)
	assert.Empty(t, m.series)
}

func TestEmptySeriesIsValidState(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = apply(t, m, hostsMsg{hosts: []Host{{ID: "h1"}}})

	m, _ = apply(t, m, seriesMsg{gen: m.seriesGen, points: []MetricPoint{}})

	// Empty is "no metrics", not an error.
	assert.False(t, m.loadingSeries)
	assert.Empty(t, m.seriesErr)
	assert.Contains(t, m.render(), "No metrics available for this host.")
}

func TestRefreshMsgFetchesAlertsAndAnomalies(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	_, cmd := apply(t, m, RefreshMsg{})
	assert.NotNil(t, cmd)
}

func TestAlertsMsgClampsCursor(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{
		{TriggerID: "1"}, {TriggerID: "2"}, {TriggerID: "3"},
	}})
	m.alertCursor = 2

	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{{TriggerID: "1"}}})
	assert.Equal(t, 0, m.alertCursor)
}

func TestAnalyzeWithoutIDSkipsNetworkCall(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{
		{TriggerID: "1", Name: "CPU high", HostID: "h1"}, // no id
	}})

	mp := &m
	cmd := mp.startTriage()

	assert.Nil(t, cmd)
	assert.Equal(t, int64(0), backend.analyzeCalls.Load())
	assert.Equal(t, TriageAnalyzed, m.triage.State())
	require.NotNil(t, m.triage.Analysis())
	assert.True(t, m.triage.Analysis().Err)
}

func TestAnalysisFailureDowngrades(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{
		{ID: "100", TriggerID: "1", Name: "CPU high", HostID: "h1"},
	}})
	mp := &m
	cmd := mp.startTriage()
	require.NotNil(t, cmd)
	require.Equal(t, TriageAnalyzing, m.triage.State())

	m, _ = apply(t, m, analysisMsg{triggerID: "1", err: &api.Error{StatusCode: 500, Detail: "analysis engine offline"}})

	assert.Equal(t, TriageAnalyzed, m.triage.State())
	require.NotNil(t, m.triage.Analysis())
	assert.True(t, m.triage.Analysis().Err)
	assert.Equal(t, []string{"analysis engine offline"}, m.triage.Analysis().Recommendations)
}

func TestAnalysisForPreviousAlertDropped(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{
		{ID: "100", TriggerID: "1", Name: "CPU high", HostID: "h1"},
		{ID: "200", TriggerID: "2", Name: "Disk full", HostID: "h2"},
	}})
	mp := &m
	mp.startTriage()

	// Switch to the second alert before the first response arrives.
	mp.triage.Close()
	m.alertCursor = 1
	mp.startTriage()

	m, _ = apply(t, m, analysisMsg{triggerID: "1", result: &api.AnalysisResult{Analysis: "old"}})

	assert.Equal(t, TriageAnalyzing, m.triage.State())
	assert.Nil(t, m.triage.Analysis())
}

func TestRemediationEndToEnd(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{
		{ID: "100", TriggerID: "1", Name: "CPU high", Host: "h1", Severity: 4, HostID: "h1"},
	}})
	mp := &m
	cmd := mp.startTriage()
	require.NotNil(t, cmd)

	m, _ = apply(t, m, analysisMsg{triggerID: "1", result: &api.AnalysisResult{
		Analysis:        "runaway process",
		Recommendations: []string{"restart service"},
		Remediation:     &api.Remediation{ScriptID: "r1"},
	}})
	require.True(t, m.triage.CanRemediate())

	// Trigger remediation via the dialog key.
	m, cmd = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.NotNil(t, cmd)
	assert.Equal(t, TriageRemediating, m.triage.State())

	// A second press while in flight must not issue another request.
	m, cmd = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Nil(t, cmd)

	m, _ = apply(t, m, remediationMsg{triggerID: "1", data: map[string]interface{}{"status": "ok"}})
	assert.Equal(t, TriageResolved, m.triage.State())
	require.NotNil(t, m.triage.Remediation())
	assert.True(t, m.triage.Remediation().Success)
	assert.Equal(t, "ok", m.triage.Remediation().Data["status"])
}

func TestDialogCloseFromAnyState(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{
		{ID: "100", TriggerID: "1", Name: "CPU high", HostID: "h1"},
	}})
	mp := &m
	mp.startTriage()
	require.Equal(t, TriageAnalyzing, m.triage.State())

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, TriageIdle, m.triage.State())
}

func TestEmailIndependentOfTriage(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{
		{ID: "100", TriggerID: "1", Name: "CPU high", HostID: "h1"},
	}})

	mp := &m
	cmd := mp.sendEmail()
	require.NotNil(t, cmd)
	msg := cmd()
	m, _ = apply(t, m, msg)

	assert.Equal(t, int64(1), backend.emailCalls.Load())
	assert.Equal(t, "Alert email sent.", m.emailNotice)
	// The triage session is untouched.
	assert.Equal(t, TriageIdle, m.triage.State())
}

func TestEmailWithoutIDSkipsNetworkCall(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestModel(backend)
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{{TriggerID: "1"}}})

	mp := &m
	cmd := mp.sendEmail()

	assert.Nil(t, cmd)
	assert.Equal(t, int64(0), backend.emailCalls.Load())
	assert.Contains(t, m.emailNotice, "no id")
}

func TestEmailFailureDoesNotTouchTriage(t *testing.T) {
	backend := &fakeBackend{err: errors.New("smtp down")}
	m := newTestModel(backend)
	m, _ = apply(t, m, alertsMsg{alerts: []api.Alert{
		{ID: "100", TriggerID: "1", Name: "CPU high", HostID: "h1"},
	}})
	mp := &m
	mp.startTriage()
	require.Equal(t, TriageAnalyzing, m.triage.State())

	m, _ = apply(t, m, emailSentMsg{triggerID: "1", err: errors.New("smtp down")})

	assert.Contains(t, m.emailNotice, "Email failed")
	assert.Equal(t, TriageAnalyzing, m.triage.State())
}

func TestFetchHostsAllOrNothing(t *testing.T) {
	backend := &fakeBackend{
		metricKeys: []api.HostKeys{{HostID: "h1", Keys: []string{"cpu_usage"}}},
		err:        errors.New("unreachable"),
	}
	m := newTestModel(backend)

	msg := m.fetchHostsCmd()()
	hm, ok := msg.(hostsMsg)
	require.True(t, ok)
	assert.Error(t, hm.err)
	assert.Nil(t, hm.hosts)
}

func TestFetchHostsReconciles(t *testing.T) {
	backend := &fakeBackend{
		metricKeys: []api.HostKeys{{HostID: "h1", Keys: []string{"cpu_usage"}}},
		statuses:   []api.HostStatus{{HostID: "h1", Name: "web-01", Status: "up"}},
	}
	m := newTestModel(backend)

	msg := m.fetchHostsCmd()()
	hm, ok := msg.(hostsMsg)
	require.True(t, ok)
	require.NoError(t, hm.err)
	require.Len(t, hm.hosts, 1)
	assert.Equal(t, "web-01", hm.hosts[0].Name)
	assert.Equal(t, StatusUp, hm.hosts[0].Status)
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	assert.NotNil(t, cmd)
	assert.Equal(t, "", m.View())
}
