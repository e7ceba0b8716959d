package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/messagely/internal/logger"
	"github.com/sbilibin2017/messagely/internal/models"
)

// RedisClient is the subset of *redis.Client used for pub/sub.
type RedisClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes message events on a per-recipient channel,
// prefix + username.
type RedisPublisher struct {
	client RedisClient
	prefix string
}

// NewRedisPublisher creates a publisher using channels named prefix+username.
func NewRedisPublisher(client RedisClient, prefix string) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		prefix: prefix,
	}
}

// Channel returns the channel events for username are published on.
func (p *RedisPublisher) Channel(username string) string {
	return p.prefix + username
}

// Publish encodes event as JSON and publishes it to the recipient's channel.
func (p *RedisPublisher) Publish(ctx context.Context, event models.MessageEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	channel := p.Channel(event.ToUsername)
	receivers, err := p.client.Publish(ctx, channel, data).Result()

	logger.Log.Infow("redis publish",
		"channel", channel,
		"type", event.Type,
		"message_id", event.MessageID,
		"receivers", receivers,
		"error", err,
	)
	return err
}
