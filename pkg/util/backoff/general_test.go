package backoff

import (
	"context"
	"errors"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
)

func TestRetryWithMax(t *testing.T) {
	t.Run("success after retries", func(t *testing.T) {
		calls := 0
		err := RetryWithMax(context.Background(), 3, func() error {
			calls++
			if calls < 2 {
				return errors.New("bad gateway")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("permanent error", func(t *testing.T) {
		calls := 0
		err := RetryWithMax(context.Background(), 3, func() error {
			calls++
			return backoff.Permanent(errors.New("bad request"))
		})
		assert.EqualError(t, err, "bad request")
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := RetryWithMax(ctx, 3, func() error {
			return errors.New("bad gateway")
		})
		assert.Error(t, err)
	})
}

func TestNewReconnectBackOff(t *testing.T) {
	b := NewReconnectBackOff()
	for i := 0; i < 20; i++ {
		assert.NotEqual(t, backoff.Stop, b.NextBackOff())
	}
}
