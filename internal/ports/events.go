package ports

import "context"

// EventPublisher is the outbound notification sink. Delivery is best-effort
// and at-most-once; callers never fail an operation on a publish error.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}
