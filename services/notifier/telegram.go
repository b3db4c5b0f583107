package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier posts messages through the Bot API sendMessage method
type TelegramNotifier struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

var _ Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier creates a notifier for one chat
func NewTelegramNotifier(token, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		token:   token,
		chatID:  chatID,
		baseURL: telegramAPI,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the notifier at another Bot API host
func (n *TelegramNotifier) WithBaseURL(url string) *TelegramNotifier {
	n.baseURL = url
	return n
}

// Name returns the channel name
func (n *TelegramNotifier) Name() string {
	return "telegram"
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts message to the chat
func (n *TelegramNotifier) Send(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{
		"chat_id": n.chatID,
		"text":    message,
	})
	if err != nil {
		return notificationError(n.Name(), "encode message", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return notificationError(n.Name(), "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		// The URL carries the bot token; keep it out of the error.
		return notificationError(n.Name(), "send message", fmt.Errorf("request failed"))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return notificationError(n.Name(), "read response", fmt.Errorf("status %d: %w", resp.StatusCode, err))
	}
	var result telegramResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return notificationError(n.Name(), "decode response", fmt.Errorf("status %d: %w", resp.StatusCode, err))
	}

	if resp.StatusCode != http.StatusOK || !result.OK {
		return notificationError(n.Name(), "send message",
			fmt.Errorf("status %d: %s", resp.StatusCode, result.Description))
	}
	return nil
}
