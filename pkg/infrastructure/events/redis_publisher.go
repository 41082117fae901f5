package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

// RedisPublisher sends status changes as JSON on a pub/sub channel
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) PublishStatusChange(ctx context.Context, change entities.BlendStatusChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("encode status change: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish to redis channel %s: %w", p.channel, err)
	}
	return nil
}

// SubscribeStatusChanges delivers decoded changes from channel to fn until ctx
// is done. Undecodable messages are passed to onError and skipped.
func SubscribeStatusChanges(
	ctx context.Context,
	client redis.UniversalClient,
	channel string,
	fn func(entities.BlendStatusChange),
	onError func(error),
) error {
	sub := client.Subscribe(ctx, channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to redis channel %s: %w", channel, err)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var change entities.BlendStatusChange
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				if onError != nil {
					onError(fmt.Errorf("decode status change: %w", err))
				}
				continue
			}
			fn(change)
		}
	}
}
