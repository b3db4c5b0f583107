package notifier

import (
	"context"
	"encoding/base64"

	"github.com/redis/go-redis/v9"
)

// MessageKey is the stream field holding the base64 encoded alert
const MessageKey = "b64_message"

const streamMaxLength = 1000

// RedisNotifier appends alerts to a Redis stream for downstream consumers
type RedisNotifier struct {
	client *redis.Client
	stream string
}

var _ Notifier = (*RedisNotifier)(nil)

// NewRedisNotifier creates a new Redis stream notifier
func NewRedisNotifier(addr string, db int, stream string) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisNotifier{
		client: client,
		stream: stream,
	}
}

// Name returns the channel name
func (n *RedisNotifier) Name() string {
	return "redis"
}

// Send adds the message to the stream.
// The message is base64 encoded before publishing
func (n *RedisNotifier) Send(ctx context.Context, message string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(message))

	err := n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: streamMaxLength,
		Approx: true,
		Values: map[string]interface{}{
			MessageKey: encoded,
		},
	}).Err()
	if err != nil {
		return notificationError(n.Name(), "xadd "+n.stream, err)
	}
	return nil
}

// Close closes the Redis connection
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
