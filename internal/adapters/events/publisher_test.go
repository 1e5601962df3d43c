package events

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisStreamPublisher(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	pub := NewRedisStreamPublisher(client, "user-events")
	ctx := context.Background()

	if err := pub.Publish(ctx, "user.logged_in", []byte(`{"identity_id":"abc"}`)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	entries, err := client.XRange(ctx, "user-events", "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one stream entry, got %d", len(entries))
	}
	if entries[0].Values["event_type"] != "user.logged_in" {
		t.Fatalf("unexpected event type %v", entries[0].Values["event_type"])
	}
	if entries[0].Values["payload"] != `{"identity_id":"abc"}` {
		t.Fatalf("unexpected payload %v", entries[0].Values["payload"])
	}
}
