package notifier

import (
	"github.com/roccohia/labubu-watcher/config"
)

// FromConfig builds the fan-out of every configured channel. With nothing
// configured, alerts go to the log. The returned func closes held connections.
func FromConfig(cfg *config.Config) (*Multi, func() error) {
	var notifiers []Notifier
	closeFn := func() error { return nil }

	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifiers = append(notifiers, NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
	}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, NewWebhookNotifier(cfg.WebhookURL))
	}
	if cfg.RedisAddr != "" {
		r := NewRedisNotifier(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		notifiers = append(notifiers, r)
		closeFn = r.Close
	}
	if len(notifiers) == 0 {
		notifiers = append(notifiers, NewLogNotifier())
	}
	return NewMulti(notifiers...), closeFn
}
