package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posts {"text": message} to a URL. Slack and Mattermost
// incoming webhooks accept this body as is.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

var _ Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier creates a webhook notifier
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the channel name
func (n *WebhookNotifier) Name() string {
	return "webhook"
}

// Send posts the message
func (n *WebhookNotifier) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return notificationError(n.Name(), "encode message", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return notificationError(n.Name(), "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return notificationError(n.Name(), "send message", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return notificationError(n.Name(), "send message", fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}
	return nil
}
