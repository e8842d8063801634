package util

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithContext_SuccessAfterRetries(t *testing.T) {
	calls := 0
	result, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 99, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 99, result)
	assert.Equal(t, 3, calls)
}

func TestRetryWithContext_PersistentFailure(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("attempt %d", calls)
	})
	require.Error(t, err)
	assert.Equal(t, "attempt 3", err.Error())
	assert.Equal(t, 3, calls)
}

func TestRetryWithContext_MaxTriesZero(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), 0, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("fail")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithContext(ctx, 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRetryWithContext_Deadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := RetryWithContext(ctx, 100, func(ctx context.Context) (int, error) {
		calls++
		time.Sleep(5 * time.Millisecond)
		return 0, errors.New("transient")
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotZero(t, calls)
}

func TestRetryWithContext_PermanentStopsEarly(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), 5, func(ctx context.Context) (int, error) {
		calls++
		return 0, fmt.Errorf("bad request: %w", ErrPermanent)
	})
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, calls)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ATLAS_TEST_STR", "value")
	t.Setenv("ATLAS_TEST_BLANK", "  ")
	t.Setenv("ATLAS_TEST_INT", "8")
	t.Setenv("ATLAS_TEST_BAD_INT", "-2")
	t.Setenv("ATLAS_TEST_BOOL", "1")
	t.Setenv("ATLAS_TEST_BAD_BOOL", "maybe")

	assert.Equal(t, "value", GetEnvString("ATLAS_TEST_STR", "x"))
	assert.Equal(t, "x", GetEnvString("ATLAS_TEST_BLANK", "x"))
	assert.Equal(t, "x", GetEnvString("ATLAS_TEST_UNSET", "x"))

	assert.Equal(t, 8, GetEnvInt("ATLAS_TEST_INT", 4))
	assert.Equal(t, 4, GetEnvInt("ATLAS_TEST_BAD_INT", 4))
	assert.Equal(t, 4, GetEnvInt("ATLAS_TEST_UNSET", 4))

	assert.True(t, GetEnvBool("ATLAS_TEST_BOOL", false))
	assert.True(t, GetEnvBool("ATLAS_TEST_BAD_BOOL", true))
	assert.False(t, GetEnvBool("ATLAS_TEST_UNSET", false))
}
