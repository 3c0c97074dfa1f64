package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	domainevents "github.com/som23ya/workwale-core/internal/domain/events"
	"github.com/som23ya/workwale-core/pkg/logger"
)

const defaultChannelPrefix = "workwale:events:"

// RedisEmitter publishes events as JSON on Redis pub/sub channels, one
// channel per event kind. Publish failures are logged and swallowed; the
// emitting operation has already committed.
type RedisEmitter struct {
	client *redis.Client
	prefix string
	log    logger.Logger
}

// NewRedisEmitter creates an emitter on an existing Redis client.
func NewRedisEmitter(client *redis.Client, opts ...RedisOption) *RedisEmitter {
	r := &RedisEmitter{
		client: client,
		prefix: defaultChannelPrefix,
		log:    logger.Named("events.redis"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RedisEmitter) Emit(ctx context.Context, ev domainevents.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		r.log.Warn(ctx, "failed to encode event", logger.Error(err),
			logger.String("kind", string(ev.Kind)))
		return
	}
	channel := r.prefix + string(ev.Kind)
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		r.log.Warn(ctx, "failed to publish event", logger.Error(err),
			logger.String("channel", channel))
	}
}
