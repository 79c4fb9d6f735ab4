package retry

import (
	"context"
	"time"
)

// Classifier reports whether an error is worth retrying. Validation and
// logic errors must return false; only transient network/provider faults
// should be retried.
type Classifier func(ctx context.Context, err error) bool

// Do runs fn up to attempts times with exponential backoff (1s, 2s, 4s...)
// between attempts. The first non-retryable error, or the error from the
// final attempt, is returned as-is.
func Do(ctx context.Context, attempts int, retryable Classifier, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(ctx, err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(1<<attempt) * time.Second):
		}
	}
	return err
}
