package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stockpilot/internal/dto"
)

// WebhookPayload is the notification body posted to the configured endpoint
// whenever an alert scan finds products below threshold.
type WebhookPayload struct {
	CompanyID   string      `json:"company_id"`
	ScannedAt   string      `json:"scanned_at"` // RFC3339
	TotalAlerts int         `json:"total_alerts"`
	Alerts      []dto.Alert `json:"alerts"`
}

// WebhookClient posts low-stock notifications to an external endpoint
// (Slack bridge, ops pager, ERP connector). Failures here must never
// block the scan itself — callers run it through a circuit breaker.
type WebhookClient struct {
	url        string
	httpClient *http.Client
}

func NewWebhookClient(url string) *WebhookClient {
	return &WebhookClient{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Notify sends the alert summary as a JSON POST. Any non-2xx status is an error
// so the circuit breaker can count it.
func (c *WebhookClient) Notify(ctx context.Context, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
