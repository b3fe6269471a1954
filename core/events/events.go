package events

import (
	"context"
	"encoding/json"
	"time"

	"arena-booking-api/core/logger"

	"github.com/redis/go-redis/v9"
)

// Channel names for record change feeds.
const (
	TopicBookings    = "changes:bookings"
	TopicPlaySignUps = "changes:play_signups"
)

// Change describes one mutation of a persisted record. Watchers use it to
// refresh their view; the record payload is advisory, the store stays
// authoritative.
type Change struct {
	Kind   string `json:"kind"` // created | deleted | rescheduled
	ID     string `json:"id"`
	Record any    `json:"record,omitempty"`
	At     int64  `json:"at"`
}

// Publisher fans record changes out to watchers.
type Publisher interface {
	Publish(ctx context.Context, topic string, change Change) error
}

// Subscriber receives record changes for one topic.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan string, func())
}

// Bus is a Redis pub/sub backed Publisher and Subscriber.
type Bus struct {
	rdb *redis.Client
}

func NewBus(rdb *redis.Client) *Bus {
	return &Bus{rdb: rdb}
}

func (b *Bus) Publish(ctx context.Context, topic string, change Change) error {
	if change.At == 0 {
		change.At = time.Now().Unix()
	}
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, topic, payload).Err(); err != nil {
		logger.Error("EventBus:Publish", "topic", topic, "error", err)
		return err
	}
	return nil
}

// Subscribe returns a channel of raw change payloads and a cancel function.
// The channel is closed when the context ends or cancel is called.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan string, func()) {
	sub := b.rdb.Subscribe(ctx, topic)
	out := make(chan string, 16)

	go func() {
		defer close(out)
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return out, cancel
}
