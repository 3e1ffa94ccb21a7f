package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/eventstore"
	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(t.Context(), fn)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, shell.ErrorTypeNone, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return eventstore.ErrConcurrencyConflict
		}
		return nil
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(t.Context(), fn, shell.WithBaseDelay(time.Millisecond))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_PermanentErrorsFailFast(t *testing.T) {
	// arrange
	permanent := errors.New("permanent")
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return permanent
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(t.Context(), fn)

	// assert
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, shell.ErrorTypeOther, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_ExhaustsAttempts(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return eventstore.ErrConcurrencyConflict
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(t.Context(), fn,
		shell.WithMaxAttempts(3),
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
	)

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, shell.ErrorTypeConcurrencyConflict, meta.LastErrorType)
	assert.Equal(t, 3*time.Millisecond, meta.TotalDelay)
}

func Test_RetryWithExponentialBackoff_StopsWhenContextIsCanceled(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(t.Context())
	fn := func(_ context.Context) error {
		cancel()
		return eventstore.ErrConcurrencyConflict
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(ctx, fn, shell.WithBaseDelay(time.Second))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, shell.ErrorTypeContextCanceled, meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	_, err := shell.RetryWithExponentialBackoff(t.Context(), fn, shell.WithMaxAttempts(0))
	assert.ErrorIs(t, err, shell.ErrInvalidMaxAttempts)

	_, err = shell.RetryWithExponentialBackoff(t.Context(), fn, shell.WithBaseDelay(-time.Millisecond))
	assert.ErrorIs(t, err, shell.ErrNegativeBaseDelay)

	_, err = shell.RetryWithExponentialBackoff(t.Context(), fn, shell.WithJitterFactor(1.5))
	assert.ErrorIs(t, err, shell.ErrInvalidJitterFactor)
}
