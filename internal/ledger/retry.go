package ledger

import (
	"context"
	"fmt"
	"time"
)

const (
	maxAttempts  = 3                      // Total attempts per store operation
	retryBackoff = 200 * time.Millisecond // Initial backoff, doubled per attempt
)

// withRetry runs op, retrying transient store failures with backoff.
// Domain errors (NotFound, DuplicateKey, InsufficientBalance, InvalidPubkey)
// are surfaced to the caller immediately and never retried. Once attempts are
// exhausted the last error is wrapped as ErrStoreUnavailable.
func withRetry(ctx context.Context, op func() error) error {
	backoff := retryBackoff
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			// Wait out the backoff unless the caller has given up
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrStoreUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		err = op()
		if err == nil || IsDomainError(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
