package database

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	connectAttempts    = 5
	connectBaseBackoff = 200 * time.Millisecond
	pingTimeout        = 3 * time.Second
)

// pingWithRetry retries ping on a capped fibonacci backoff so the service
// survives a store that comes up a little after it.
func pingWithRetry(ctx context.Context, ping func(ctx context.Context) error) error {
	b := retry.NewFibonacci(connectBaseBackoff)
	b = retry.WithMaxRetries(connectAttempts, b)
	b = retry.WithCappedDuration(2*time.Second, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := ping(pingCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
