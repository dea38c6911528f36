package api

import "time"

// HostKeys is one entry of the metric-key inventory: a monitored host and
// the metric identifiers the backend has samples for.
type HostKeys struct {
	HostID string   `json:"host_id"`
	Keys   []string `json:"keys"`
}

// HostStatus is the live health record for a host.
type HostStatus struct {
	HostID    string    `json:"host_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	LastCheck time.Time `json:"last_check"`
	Issues    []string  `json:"issues"`
}

// Alert is an active threshold condition against a host. ID may be empty for
// triggers the backend has not mapped to an event yet; that is a valid state
// and must be checked before requesting analysis. TriggerID is always
// present and is the list key.
type Alert struct {
	ID        string `json:"id,omitempty"`
	TriggerID string `json:"triggerid"`
	Name      string `json:"name"`
	Host      string `json:"host"`
	Severity  int    `json:"severity"`
	HostID    string `json:"hostid"`
}

// Anomaly is a statistically flagged metric value, distinct from rule-based
// alerts. Display-only.
type Anomaly struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	HostID    string    `json:"host_id"`
	ItemKey   string    `json:"item_key"`
	Value     float64   `json:"value"`
	Reason    string    `json:"reason"`
}

// MetricSample is one raw sample as stored by the backend. Memory values are
// bytes; MemoryTotal is nil when the collector could not determine capacity.
// Network counters are bytes per sampling interval.
type MetricSample struct {
	Timestamp   time.Time `json:"timestamp"`
	CPUUsage    float64   `json:"cpu_usage"`
	MemoryUsage float64   `json:"memory_usage"`
	MemoryTotal *float64  `json:"memory_total"`
	NetworkIn   float64   `json:"network_in"`
	NetworkOut  float64   `json:"network_out"`
}

// Remediation describes an executable fix suggested by the analysis engine.
type Remediation struct {
	ScriptID    string `json:"script_id"`
	Description string `json:"description,omitempty"`
}

// AnalysisResult is the AI root-cause analysis for one alert. Err is set when
// the result is an error placeholder rather than a real analysis, either
// synthesized client-side or downgraded from a failed request.
type AnalysisResult struct {
	Analysis        string       `json:"analysis"`
	RootCauses      []string     `json:"root_causes,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
	Remediation     *Remediation `json:"remediation,omitempty"`
	Err             bool         `json:"error,omitempty"`
}

// RemediationRequest is the payload for POST /api/remediate.
type RemediationRequest struct {
	ScriptID string `json:"script_id"`
	HostID   string `json:"host_id"`
}

// EmailConfig holds SMTP notification settings.
type EmailConfig struct {
	SMTPHost     string `json:"smtp_host"`
	SMTPPort     int    `json:"smtp_port"`
	SMTPUser     string `json:"smtp_user"`
	SMTPPassword string `json:"smtp_password"`
	Recipients   string `json:"recipients"`
}

// StatusMessage is the generic acknowledgement the backend returns for
// configuration writes and test sends.
type StatusMessage struct {
	Message string `json:"message"`
}
