package dashboard

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyHostPrev   = "up"
	KeyHostPrevK  = "k"
	KeyHostNext   = "down"
	KeyHostNextJ  = "j"
	KeyAlertPrev  = "p"
	KeyAlertNext  = "n"
	KeyAnalyze    = "a"
	KeyAnalyzeAlt = "enter"
	KeyEmail      = "e"
	KeyRemediate  = "x"
	KeyRange      = "t"
	KeyChartTab   = "tab"
	KeyClose      = "esc"
	KeyToggleHelp = "?"
)

// handleKey processes keyboard input. Returns true if the key was handled.
func (m *Model) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyClose {
		m.showHelp = false
		return true, nil
	}

	// The triage dialog captures input while open.
	if m.triage.State() != TriageIdle {
		return m.handleDialogKey(msg)
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		return true, tea.Batch(m.fetchHostsCmd(), m.fetchAlertsCmd(), m.fetchAnomaliesCmd(), m.refetchSeries())

	case KeyHostPrev, KeyHostPrevK:
		return true, m.selectHost(m.selected - 1)

	case KeyHostNext, KeyHostNextJ:
		return true, m.selectHost(m.selected + 1)

	case KeyRange:
		return true, m.cycleRange()

	case KeyChartTab:
		m.chartTab = m.chartTab.Next()
		return true, nil

	case KeyAlertPrev:
		if m.alertCursor > 0 {
			m.alertCursor--
		}
		return true, nil

	case KeyAlertNext:
		if m.alertCursor < len(m.alerts)-1 {
			m.alertCursor++
		}
		return true, nil

	case KeyAnalyze, KeyAnalyzeAlt:
		return true, m.startTriage()

	case KeyEmail:
		return true, m.sendEmail()
	}

	return false, nil
}

// handleDialogKey routes input while the triage dialog is open.
func (m *Model) handleDialogKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case KeyClose:
		// Closing is legal in every state and clears the whole session.
		m.triage.Close()
		return true, nil

	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRemediate:
		scriptID, hostID, ok := m.triage.StartRemediation()
		if !ok {
			return true, nil
		}
		m.syncDialogContent()
		return true, m.remediateCmd(m.triage.Alert().TriggerID, scriptID, hostID)
	}

	// Everything else scrolls the dialog.
	if m.viewportReady {
		var cmd tea.Cmd
		m.dialogViewport, cmd = m.dialogViewport.Update(msg)
		return true, cmd
	}
	return true, nil
}

// startTriage opens the triage dialog for the alert under the cursor. When
// the alert has no id the session self-completes with a synthetic error
// result and no request is issued.
func (m *Model) startTriage() tea.Cmd {
	if m.alertCursor < 0 || m.alertCursor >= len(m.alerts) {
		return nil
	}
	alert := m.alerts[m.alertCursor]
	needsRequest := m.triage.Begin(alert)
	m.syncDialogContent()
	if !needsRequest {
		m.log.Warn("alert %q has no id; skipping analysis request", alert.TriggerID)
		return nil
	}
	return m.analyzeCmd(alert)
}

// sendEmail fires the notification email for the alert under the cursor.
// Independent of any triage session.
func (m *Model) sendEmail() tea.Cmd {
	if m.alertCursor < 0 || m.alertCursor >= len(m.alerts) {
		return nil
	}
	alert := m.alerts[m.alertCursor]
	if alert.ID == "" {
		m.emailNotice = "Email failed: alert has no id yet."
		return nil
	}
	m.emailNotice = "Sending email..."
	return m.emailCmd(alert)
}
