package backoff

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var MaxRetries uint64 = 5

// RetryGeneral retries op with exponential backoff until it succeeds, the
// retries are exhausted, op returns a backoff.Permanent error or ctx is done.
func RetryGeneral(ctx context.Context, op backoff.Operation) (err error) {
	return RetryWithMax(ctx, MaxRetries, op)
}

func RetryWithMax(ctx context.Context, maxRetries uint64, op backoff.Operation) error {
	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(),
			maxRetries),
		ctx))
}

// NewReconnectBackOff returns the backoff used between stream reconnections,
// it never stops by itself.
func NewReconnectBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}
