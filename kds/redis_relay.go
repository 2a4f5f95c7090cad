package kds

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisRelay shares topics between processes over Redis pub/sub. Every
// group maps to the channel prefix+group.
type RedisRelay struct {
	client *redis.Client
	prefix string
}

func NewRedisRelay(client *redis.Client, prefix string) *RedisRelay {
	return &RedisRelay{client: client, prefix: prefix}
}

func (r *RedisRelay) channel(group string) string {
	return r.prefix + group
}

func (r *RedisRelay) Publish(ctx context.Context, group string, payload []byte) error {
	return r.client.Publish(ctx, r.channel(group), payload).Err()
}

func (r *RedisRelay) Subscribe(ctx context.Context, deliver func(group string, payload []byte)) error {
	pubsub := r.client.PSubscribe(ctx, r.prefix+"*")
	defer pubsub.Close()

	// wait for the subscription confirmation so publishes right after start are not lost
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			deliver(strings.TrimPrefix(msg.Channel, r.prefix), []byte(msg.Payload))
		}
	}
}

func (r *RedisRelay) Close() error {
	return r.client.Close()
}
