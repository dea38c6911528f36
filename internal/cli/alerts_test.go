package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdash/netdash/internal/api"
)

func TestAlertsCommandRendersTable(t *testing.T) {
	server := newBackendStub(t, map[string]string{
		"/api/alerts": `[
			{"triggerid": "1", "id": "100", "name": "CPU high", "host": "web-01", "severity": 4, "hostid": "h1"},
			{"triggerid": "2", "name": "Disk low", "host": "db-01", "severity": 2, "hostid": "h2"}
		]`,
	})
	defer server.Close()

	var buf bytes.Buffer
	err := alertsCommand(&buf, testClient(server.URL), time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "CPU high")
	assert.Contains(t, out, "High")
	assert.Contains(t, out, "Disk low")
	assert.Contains(t, out, "Warning")
}

func TestAlertsCommandEmpty(t *testing.T) {
	server := newBackendStub(t, map[string]string{
		"/api/alerts": `[]`,
	})
	defer server.Close()

	var buf bytes.Buffer
	err := alertsCommand(&buf, testClient(server.URL), time.Second)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No active alerts.")
}

func TestAlertsCommandError(t *testing.T) {
	server := newBackendStub(t, nil)
	defer server.Close()

	var buf bytes.Buffer
	err := alertsCommand(&buf, testClient(server.URL), time.Second)
	require.Error(t, err)
}

func TestPrintAlertsSeverityOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	printAlerts(&buf, []api.Alert{
		{TriggerID: "1", Name: "weird", Host: "web-01", Severity: 99},
	})
	assert.Contains(t, buf.String(), "Unknown")
}
