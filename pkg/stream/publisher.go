package stream

import (
	"context"
)

// Publisher pushes a raw payload to the topic of a stream source.
type Publisher interface {
	PublishPayload(ctx context.Context, topic string, payload []byte) error
}

var _ Publisher = &Hub{}
var _ Publisher = &RedisSource{}
