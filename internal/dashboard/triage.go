package dashboard

import "github.com/netdash/netdash/internal/api"

// TriageState is the per-alert triage workflow state.
type TriageState int

const (
	// TriageIdle means no alert is selected and no dialog is open.
	TriageIdle TriageState = iota
	// TriageAnalyzing means an analysis request is in flight.
	TriageAnalyzing
	// TriageAnalyzed means an analysis result is available; remediation may
	// be offered.
	TriageAnalyzed
	// TriageRemediating means a remediation request is in flight.
	TriageRemediating
	// TriageResolved means a remediation result (success or failure) is
	// available.
	TriageResolved
)

// String returns a short name for logging and tests.
func (s TriageState) String() string {
	switch s {
	case TriageAnalyzing:
		return "analyzing"
	case TriageAnalyzed:
		return "analyzed"
	case TriageRemediating:
		return "remediating"
	case TriageResolved:
		return "resolved"
	default:
		return "idle"
	}
}

// RemediationOutcome is the visible result of one remediation attempt. At
// most one outcome exists per analysis session.
type RemediationOutcome struct {
	Success bool
	// Data is the backend's opaque success payload.
	Data map[string]interface{}
	// Message is the failure detail when Success is false.
	Message string
}

// Triage is the state machine for the alert triage dialog. Exactly one
// session exists; selecting a new alert discards whatever the previous
// session held. All methods are synchronous state transitions; network I/O
// happens elsewhere and feeds results back in.
type Triage struct {
	state       TriageState
	alert       api.Alert
	analysis    *api.AnalysisResult
	remediation *RemediationOutcome
}

// NewTriage returns an idle session.
func NewTriage() *Triage {
	return &Triage{state: TriageIdle}
}

// State returns the current workflow state.
func (t *Triage) State() TriageState { return t.state }

// Alert returns the alert under triage. Only meaningful outside TriageIdle.
func (t *Triage) Alert() api.Alert { return t.alert }

// Analysis returns the current analysis result, nil while analyzing.
func (t *Triage) Analysis() *api.AnalysisResult { return t.analysis }

// Remediation returns the remediation outcome, nil until one exists.
func (t *Triage) Remediation() *RemediationOutcome { return t.remediation }

// Begin selects an alert for analysis, discarding any prior session. It
// returns true when the caller should issue the analysis request. When the
// alert has no id the session skips the network call entirely and lands on a
// synthetic error analysis; that is a complete, valid state, not a failure
// of the workflow.
func (t *Triage) Begin(alert api.Alert) bool {
	t.alert = alert
	t.analysis = nil
	t.remediation = nil

	if alert.ID == "" {
		t.analysis = &api.AnalysisResult{
			Analysis:        "Failed to get AI analysis.",
			Recommendations: []string{"Alert ID is missing. Cannot proceed."},
			Err:             true,
		}
		t.state = TriageAnalyzed
		return false
	}

	t.state = TriageAnalyzing
	return true
}

// CompleteAnalysis records a successful analysis response. Ignored unless a
// request is in flight, which drops stale responses after Close.
func (t *Triage) CompleteAnalysis(result *api.AnalysisResult) {
	if t.state != TriageAnalyzing {
		return
	}
	t.analysis = result
	t.state = TriageAnalyzed
}

// FailAnalysis downgrades a failed analysis request to an error-flagged
// result carrying the backend detail, so the dialog never sticks in a
// loading state.
func (t *Triage) FailAnalysis(detail string) {
	if t.state != TriageAnalyzing {
		return
	}
	if detail == "" {
		detail = "request failed"
	}
	t.analysis = &api.AnalysisResult{
		Analysis:        "Failed to get AI analysis.",
		Recommendations: []string{detail},
		Err:             true,
	}
	t.state = TriageAnalyzed
}

// CanRemediate reports whether the remediation action is offered: an
// analysis with a remediation object is present and no attempt has produced
// a result or is in flight. Hiding the action once an outcome exists is what
// prevents duplicate triggers.
func (t *Triage) CanRemediate() bool {
	return t.state == TriageAnalyzed &&
		t.analysis != nil &&
		t.analysis.Remediation != nil &&
		t.remediation == nil
}

// StartRemediation transitions to remediating and returns the script and
// host identifiers the request must carry. Returns false when remediation is
// not currently offered; callers must not issue a request in that case.
func (t *Triage) StartRemediation() (scriptID, hostID string, ok bool) {
	if !t.CanRemediate() {
		return "", "", false
	}
	t.state = TriageRemediating
	return t.analysis.Remediation.ScriptID, t.alert.HostID, true
}

// CompleteRemediation records a successful remediation payload.
func (t *Triage) CompleteRemediation(data map[string]interface{}) {
	if t.state != TriageRemediating {
		return
	}
	t.remediation = &RemediationOutcome{Success: true, Data: data}
	t.state = TriageResolved
}

// FailRemediation records a failed remediation with its detail message.
func (t *Triage) FailRemediation(detail string) {
	if t.state != TriageRemediating {
		return
	}
	if detail == "" {
		detail = "request failed"
	}
	t.remediation = &RemediationOutcome{Success: false, Message: detail}
	t.state = TriageResolved
}

// Close abandons the session from any state and clears everything. Always
// legal; in-flight responses arriving afterwards are ignored by the
// state guards above.
func (t *Triage) Close() {
	t.state = TriageIdle
	t.alert = api.Alert{}
	t.analysis = nil
	t.remediation = nil
}
