// Package api is the HTTP client for the monitoring backend. It covers the
// full consumed contract: host inventory and status, metrics, alerts,
// anomalies, AI analysis, remediation, and email configuration.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/netdash/netdash/internal/logger"
)

// Client talks to the monitoring backend over HTTP. The base URL is resolved
// once at construction; every request carries a context and is bounded by
// the configured timeout.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// Error is a non-2xx response converted to a human-readable detail string.
// The backend sends failures as {"detail": "..."}; when that field is
// missing the generic transport message is used instead.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Detail)
}

// Detail extracts the user-facing message from any error: the backend detail
// string for API errors, err.Error() otherwise.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return err.Error()
}

// NewClient creates a backend client. baseURL must include scheme and host,
// e.g. "http://monitor.local:8000".
func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.Noop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// MetricKeys lists the hosts the backend has metric samples for, with their
// available metric identifiers. This is the master set of known hosts.
func (c *Client) MetricKeys(ctx context.Context) ([]HostKeys, error) {
	var out []HostKeys
	if err := c.get(ctx, "/api/hosts/metrics-keys", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HostStatuses lists live host health records.
func (c *Client) HostStatuses(ctx context.Context) ([]HostStatus, error) {
	var out []HostStatus
	if err := c.get(ctx, "/api/hosts/status", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Alerts lists currently active alerts.
func (c *Client) Alerts(ctx context.Context) ([]Alert, error) {
	var out []Alert
	if err := c.get(ctx, "/api/alerts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Anomalies lists recently detected anomalies.
func (c *Client) Anomalies(ctx context.Context) ([]Anomaly, error) {
	var out []Anomaly
	if err := c.get(ctx, "/api/anomalies", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Metrics fetches raw samples for one host over the trailing window of the
// given hour count. An empty slice is a valid response, distinct from an
// error: the host simply has no samples in the window.
func (c *Client) Metrics(ctx context.Context, hostID string, hours int) ([]MetricSample, error) {
	path := fmt.Sprintf("/api/metrics/%s?hours=%d", url.PathEscape(hostID), hours)
	var out []MetricSample
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Analyze requests an AI root-cause analysis for the alert with the given id.
func (c *Client) Analyze(ctx context.Context, alertID string) (*AnalysisResult, error) {
	path := fmt.Sprintf("/api/alerts/%s/analyze", url.PathEscape(alertID))
	var out AnalysisResult
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Remediate executes a remediation script against a host. The response
// payload is opaque; it is surfaced to the user as-is.
func (c *Client) Remediate(ctx context.Context, scriptID, hostID string) (map[string]interface{}, error) {
	var out map[string]interface{}
	err := c.post(ctx, "/api/remediate", RemediationRequest{ScriptID: scriptID, HostID: hostID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EmailAlert asks the backend to send the alert notification email.
func (c *Client) EmailAlert(ctx context.Context, alertID string) error {
	path := fmt.Sprintf("/api/alerts/%s/email", url.PathEscape(alertID))
	return c.post(ctx, path, nil, nil)
}

// EmailConfig fetches the current SMTP notification settings.
func (c *Client) EmailConfig(ctx context.Context) (*EmailConfig, error) {
	var out EmailConfig
	if err := c.get(ctx, "/api/config/email", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveEmailConfig stores SMTP notification settings on the backend.
func (c *Client) SaveEmailConfig(ctx context.Context, cfg EmailConfig) (*StatusMessage, error) {
	var out StatusMessage
	if err := c.post(ctx, "/api/config/email", cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TestEmail asks the backend to send a test email with the saved settings.
func (c *Client) TestEmail(ctx context.Context) (*StatusMessage, error) {
	var out StatusMessage
	if err := c.post(ctx, "/api/config/email/test", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("%s %s", method, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFrom(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// errorFrom converts a non-2xx response into an *Error, preferring the
// backend's JSON detail field.
func (c *Client) errorFrom(resp *http.Response) error {
	detail := fmt.Sprintf("request failed with status %s", resp.Status)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil && len(data) > 0 {
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
			detail = payload.Detail
		}
	}

	c.log.Warn("backend error %d: %s", resp.StatusCode, detail)
	return &Error{StatusCode: resp.StatusCode, Detail: detail}
}
