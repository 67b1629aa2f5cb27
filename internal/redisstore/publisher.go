package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"autocare/internal/models"
)

// envelope is the wire format published for each domain event.
type envelope struct {
	Event      string       `json:"event"`
	OccurredAt time.Time    `json:"occurred_at"`
	Payload    models.Event `json:"payload"`
}

// Publisher forwards domain events to a redis pub/sub channel. Delivery is
// fire-and-forget; subscribers must be idempotent or purely observational.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher returns a redis-backed notification sink.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = "autocare:events"
	}
	return &Publisher{client: client, channel: channel}
}

// Publish encodes and publishes one event.
func (p *Publisher) Publish(ctx context.Context, event models.Event) error {
	data, err := json.Marshal(envelope{
		Event:      event.EventName(),
		OccurredAt: time.Now().UTC(),
		Payload:    event,
	})
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}
