package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"parlour-attendance/models"
	"parlour-attendance/pkg/logger"
)

const publishTimeout = 2 * time.Second

// RedisBridge publishes attendance events on a Redis channel and relays the
// channel into the local Hub, so every API instance reaches its own sockets.
type RedisBridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
	log     logger.Logger

	// ready is set while Run holds a live subscription.
	ready atomic.Bool
}

func NewRedisBridge(client *redis.Client, hub *Hub, log logger.Logger) *RedisBridge {
	if log == nil {
		log = logger.Nop{}
	}
	return &RedisBridge{
		client:  client,
		hub:     hub,
		channel: models.AttendanceUpdateTopic,
		log:     log,
	}
}

// Ready reports whether the bridge is relaying the Redis channel.
func (b *RedisBridge) Ready() bool {
	return b.ready.Load()
}

// Broadcast publishes to Redis. Without a live subscription, or when Redis is
// unreachable, the event is delivered to this instance's clients directly.
func (b *RedisBridge) Broadcast(event models.AttendanceEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.log.Error("failed to encode %s event: %v", event.Type, err)
		return
	}

	if !b.ready.Load() {
		b.hub.Publish(payload)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		b.log.Error("redis publish on %s failed, delivering locally: %v", b.channel, err)
		b.hub.Publish(payload)
	}
}

// Run relays the Redis channel into the hub until ctx is cancelled.
func (b *RedisBridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}
	b.ready.Store(true)
	defer b.ready.Store(false)
	b.log.Info("relaying redis channel %s", b.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			b.hub.Publish([]byte(msg.Payload))
		}
	}
}
