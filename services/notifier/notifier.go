package notifier

import (
	"context"
	"errors"

	"github.com/roccohia/labubu-watcher/logger"
	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
)

// Notifier delivers an alert message
type Notifier interface {
	// Name identifies the channel in logs and metrics
	Name() string

	// Send delivers one message. Delivery is best effort and never retried.
	Send(ctx context.Context, message string) error
}

// Multi sends every message to all of its notifiers
type Multi struct {
	notifiers []Notifier
}

var _ Notifier = (*Multi)(nil)

// NewMulti creates a fan-out notifier
func NewMulti(notifiers ...Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

// Name returns the channel name
func (m *Multi) Name() string {
	return "multi"
}

// Len returns the number of channels
func (m *Multi) Len() int {
	return len(m.notifiers)
}

// Send delivers message to every channel. A failing channel does not stop
// the others; all failures are returned together.
func (m *Multi) Send(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.Send(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier writes alerts to the application log. It is the channel of last
// resort when nothing else is configured.
type LogNotifier struct {
	log *logger.Logger
}

var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.ForComponent("notifier").WithField("channel", "log")}
}

// Name returns the channel name
func (n *LogNotifier) Name() string {
	return "log"
}

// Send logs the message
func (n *LogNotifier) Send(_ context.Context, message string) error {
	n.log.Info().Str("message", message).Msg("alert")
	return nil
}

func notificationError(channel, msg string, err error) error {
	return watcherrors.NewNotification(channel, msg, err)
}
