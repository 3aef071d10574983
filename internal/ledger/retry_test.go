package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_DomainErrorsAreNotRetried(t *testing.T) {
	for _, domainErr := range []error{ErrNotFound, ErrDuplicateKey, ErrInsufficientBalance, ErrInvalidPubkey} {
		attempts := 0
		err := withRetry(context.Background(), func() error {
			attempts++
			return domainErr
		})

		assert.ErrorIs(t, err, domainErr)
		assert.Equal(t, 1, attempts, "domain error %v must surface on the first attempt", domainErr)
	}
}

func TestWithRetry_ExhaustionWrapsStoreUnavailable(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), func() error {
		attempts++
		return errors.New("dial tcp: connection refused")
	})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, maxAttempts, attempts)
}

func TestWithRetry_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := withRetry(ctx, func() error {
		attempts++
		return errors.New("transient")
	})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 1, attempts, "a cancelled context must not run further attempts")
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, IsDomainError(ErrNotFound))
	assert.True(t, IsDomainError(ErrDuplicateKey))
	assert.True(t, IsDomainError(ErrInsufficientBalance))
	assert.True(t, IsDomainError(ErrInvalidPubkey))
	assert.False(t, IsDomainError(ErrStoreUnavailable))
	assert.False(t, IsDomainError(errors.New("connection refused")))
	assert.False(t, IsDomainError(nil))
}

func TestAdjustmentType(t *testing.T) {
	assert.Equal(t, "credit", adjustmentType(100))
	assert.Equal(t, "credit", adjustmentType(0))
	assert.Equal(t, "debit", adjustmentType(-1))
}
