// Package webhook posts tracking-board mutations to an optional admin
// endpoint so external dashboards can refresh. Delivery is best-effort:
// the admin operation has already committed by the time we notify.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Event describes a single tracking mutation.
type Event struct {
	Action     string    `json:"action"` // saved | deleted
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Notifier struct {
	url    string
	client *retryablehttp.Client
}

// NewNotifier returns a notifier posting to url. An empty url disables
// notification entirely.
func NewNotifier(url string) *Notifier {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil
	return &Notifier{url: url, client: client}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool { return n != nil && n.url != "" }

// Notify posts ev as JSON. Callers treat failures as non-fatal and just
// log them.
func (n *Notifier) Notify(ctx context.Context, ev Event) error {
	if !n.Enabled() {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}
