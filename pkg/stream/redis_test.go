package stream

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/chartsync/pkg/types"
)

func TestRedisSource(t *testing.T) {
	host, ok := os.LookupEnv("TEST_REDIS_HOST")
	if !ok {
		t.Skip("TEST_REDIS_HOST is not configured")
	}

	port := os.Getenv("TEST_REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(host, port)})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	source := NewRedisSource(client, "chartsync-test:")
	req := types.StreamRequest{Channel: types.StatisticsChannel, StrategyID: "s1"}
	s, err := source.OpenStream(ctx, req)
	require.NoError(t, err)

	payloads := make(chan []byte, 1)
	sub, err := s.Subscribe(types.Observer{Next: func(payload []byte) { payloads <- payload }})
	require.NoError(t, err)

	require.NoError(t, source.PublishPayload(ctx, req.Topic(), []byte(`{"time":1,"equity":100}`)))

	select {
	case payload := <-payloads:
		assert.JSONEq(t, `{"time":1,"equity":100}`, string(payload))
	case <-ctx.Done():
		t.Fatal("payload not received")
	}

	// nothing is delivered once Unsubscribe returned
	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, source.PublishPayload(ctx, req.Topic(), []byte(`{"time":2,"equity":101}`)))

	select {
	case payload := <-payloads:
		t.Fatalf("payload %s received after unsubscribe", payload)
	case <-time.After(200 * time.Millisecond):
	}

	assert.NoError(t, sub.Unsubscribe(), "unsubscribe is idempotent")
}
