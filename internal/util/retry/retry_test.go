package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast() []Option {
	return []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond)}
}

func TestWithExponentialBackoff_Success(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, fast()...)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithExponentialBackoff_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	opts := append(fast(), WithMaxRetries(2))
	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return errors.New("connection refused")
	}, opts...)

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "operation failed after 3 attempts")
}

func TestWithExponentialBackoff_ZeroRetries(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return errors.New("nope")
	}, WithMaxRetries(0))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_FatalError(t *testing.T) {
	t.Parallel()
	attempts := 0
	authErr := errors.New("unable to authenticate")

	err := WithExponentialBackoff(context.Background(), func() error {
		attempts++
		return Fatal(authErr)
	}, fast()...)

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, authErr)
}

func TestWithExponentialBackoff_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	err := WithExponentialBackoff(ctx, func() error {
		attempts++
		cancel()
		return errors.New("connection refused")
	}, WithInitialDelay(time.Hour))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestWithExponentialBackoff_Notify(t *testing.T) {
	t.Parallel()
	var waits []time.Duration

	opts := []Option{
		WithMaxRetries(3),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(3 * time.Millisecond),
		WithNotify(func(_ int, _ error, wait time.Duration) { waits = append(waits, wait) }),
	}
	_ = WithExponentialBackoff(context.Background(), func() error { return errors.New("x") }, opts...)

	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}, waits)
}

func TestFatal(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Fatal(nil))

	base := errors.New("base")
	err := Fatal(base)
	assert.True(t, IsFatal(err))
	assert.True(t, IsFatal(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsFatal(base))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "base", err.Error())
}
