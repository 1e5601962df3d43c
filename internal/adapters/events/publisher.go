package events

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher appends notification events to a Redis stream.
// Fire-and-forget: there is no ack tracking or redelivery on this side.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
}

// NewRedisStreamPublisher creates a publisher bound to a stream name.
func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_type": eventType,
			"payload":    payload,
		},
	}).Err()
}

// LoggingPublisher writes events to the log instead of a broker. It backs
// local runs and tests.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	p.logger.InfoContext(ctx, "published event", "event_type", eventType, "payload", string(payload))
	return nil
}
