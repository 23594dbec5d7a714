package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"coderoom/internal/models"
)

const DefaultChannel = "room_events"

// Publisher mirrors room lifecycle events onto a Redis channel so other
// services can observe rooms without joining them. Publishing is
// fire-and-forget; a failure never affects the room itself.
type Publisher struct {
	rdb     *redis.Client
	channel string
}

func NewPublisher(redisAddr, channel string) *Publisher {
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	return NewPublisherWithClient(rdb, channel)
}

func NewPublisherWithClient(rdb *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{rdb: rdb, channel: channel}
}

func (p *Publisher) PublishRoomEvent(ctx context.Context, evt models.RoomEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}

func (p *Publisher) Close() error {
	return p.rdb.Close()
}
