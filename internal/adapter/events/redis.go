// Package events publishes ledger events on a redis pub/sub channel.
package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"p2ploans-backend/internal/domain/event"
)

// Channel carries every ledger event as a JSON payload.
const Channel = "p2ploans.events"

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev event.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, Channel, payload).Err()
}
