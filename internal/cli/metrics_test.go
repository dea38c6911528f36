package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdash/netdash/internal/dashboard"
	"github.com/netdash/netdash/internal/errors"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		input   string
		want    dashboard.TimeRange
		wantErr bool
	}{
		{"24h", dashboard.Range24h, false},
		{"7d", dashboard.Range7d, false},
		{"30d", dashboard.Range30d, false},
		{"24H", dashboard.Range24h, false},
		{"1h", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseRange(tt.input)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.input)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestMetricsCommandByName(t *testing.T) {
	server := newBackendStub(t, map[string]string{
		"/api/hosts/metrics-keys": `[{"host_id": "h1", "keys": ["cpu_usage"]}]`,
		"/api/hosts/status":       `[{"host_id": "h1", "name": "web-01", "status": "up", "last_check": "2026-01-10T08:00:00Z", "issues": []}]`,
		"/api/metrics/h1": `[
			{"timestamp": "2026-01-10T08:00:00Z", "cpu_usage": 40, "memory_usage": 4294967296, "memory_total": 17179869184, "network_in": 10240, "network_out": 5120},
			{"timestamp": "2026-01-10T09:00:00Z", "cpu_usage": 55.5, "memory_usage": 3221225472, "memory_total": 17179869184, "network_in": 20480, "network_out": 5120}
		]`,
	})
	defer server.Close()

	// Resolved by display name, fetched by id.
	var buf bytes.Buffer
	err := metricsCommand(&buf, testClient(server.URL), time.Second, "web-01", dashboard.Range24h, 16)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "55.5")
	assert.Contains(t, out, "3.00")  // 3 GiB
	assert.Contains(t, out, "20.00") // 20480 bytes -> KB
	assert.Contains(t, out, "16.00 GB")
	assert.Contains(t, out, "08:00")
}

func TestMetricsCommandUnknownHost(t *testing.T) {
	server := newBackendStub(t, map[string]string{
		"/api/hosts/metrics-keys": `[{"host_id": "h1", "keys": []}]`,
		"/api/hosts/status":       `[]`,
	})
	defer server.Close()

	var buf bytes.Buffer
	err := metricsCommand(&buf, testClient(server.URL), time.Second, "nope", dashboard.Range24h, 16)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrData))
}

func TestMetricsCommandEmptySeries(t *testing.T) {
	server := newBackendStub(t, map[string]string{
		"/api/hosts/metrics-keys": `[{"host_id": "h1", "keys": []}]`,
		"/api/hosts/status":       `[]`,
		"/api/metrics/h1":         `[]`,
	})
	defer server.Close()

	var buf bytes.Buffer
	err := metricsCommand(&buf, testClient(server.URL), time.Second, "h1", dashboard.Range7d, 16)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No metrics available for this host.")
}
