package stream

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/c9s/chartsync/pkg/types"
)

// RedisSource subscribes to redis pub/sub channels named <prefix><topic>.
type RedisSource struct {
	client *redis.Client
	prefix string
}

func NewRedisSource(client *redis.Client, prefix string) *RedisSource {
	return &RedisSource{client: client, prefix: prefix}
}

func (s *RedisSource) Channel(topic string) string {
	return s.prefix + topic
}

func (s *RedisSource) OpenStream(ctx context.Context, req types.StreamRequest) (types.Stream, error) {
	return &redisStream{ctx: ctx, source: s, channel: s.Channel(req.Topic())}, nil
}

// PublishPayload publishes payload to the redis channel of the topic.
func (s *RedisSource) PublishPayload(ctx context.Context, topic string, payload []byte) error {
	return s.client.Publish(ctx, s.Channel(topic), payload).Err()
}

type redisStream struct {
	ctx     context.Context
	source  *RedisSource
	channel string
}

func (s *redisStream) Subscribe(o types.Observer) (types.Subscription, error) {
	ctx, cancel := context.WithCancel(s.ctx)

	pubsub := s.source.client.Subscribe(ctx, s.channel)

	// wait for the subscription confirmation, so that the first message is not lost
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, errors.Wrapf(err, "redis subscribe %s", s.channel)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return

			case msg, ok := <-ch:
				if !ok {
					if o.Error != nil && ctx.Err() == nil {
						o.Error(errors.Errorf("redis channel %s closed", s.channel))
					}
					return
				}

				if o.Next != nil && ctx.Err() == nil {
					o.Next([]byte(msg.Payload))
				}
			}
		}
	}()

	// Unsubscribe waits for the delivery goroutine, no callback runs after it
	// returns. It must not be called from the observer callbacks.
	var once sync.Once
	return types.SubscriptionFunc(func() (err error) {
		once.Do(func() {
			cancel()
			err = pubsub.Close()
			<-done
		})
		return err
	}), nil
}
