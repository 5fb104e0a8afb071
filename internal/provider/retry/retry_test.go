package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/provider/retry"
)

func testPolicy(delays *[]time.Duration) retry.Policy {
	return retry.Policy{
		MaxAttempts: retry.DefaultMaxAttempts,
		BaseDelay:   retry.DefaultBaseDelay,
		Sleep: func(d time.Duration) {
			*delays = append(*delays, d)
		},
	}
}

func TestPolicy_Do(t *testing.T) {
	t.Run("should return immediately on success", func(t *testing.T) {
		var delays []time.Duration
		policy := testPolicy(&delays)

		calls := 0
		err := policy.Do(context.Background(), func(_ int) error {
			calls++
			return nil
		})

		require.NoError(t, err)
		require.Equal(t, 1, calls)
		require.Empty(t, delays)
	})

	t.Run("should retry rate limits with doubling backoff", func(t *testing.T) {
		var delays []time.Duration
		policy := testPolicy(&delays)

		calls := 0
		err := policy.Do(context.Background(), func(_ int) error {
			calls++
			if calls < 3 {
				return fmt.Errorf("backend: %w", domain.ErrRateLimited)
			}
			return nil
		})

		require.NoError(t, err)
		require.Equal(t, 3, calls)
		require.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, delays)
	})

	t.Run("should give up after max attempts on persistent rate limiting", func(t *testing.T) {
		var delays []time.Duration
		policy := testPolicy(&delays)

		calls := 0
		err := policy.Do(context.Background(), func(_ int) error {
			calls++
			return fmt.Errorf("backend: %w", domain.ErrRateLimited)
		})

		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrRateLimited)
		require.Equal(t, retry.DefaultMaxAttempts, calls)
		// No sleep after the final attempt.
		require.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, delays)
	})

	t.Run("should abort immediately on non-rate-limit errors", func(t *testing.T) {
		var delays []time.Duration
		policy := testPolicy(&delays)

		calls := 0
		wantErr := errors.New("backend exploded")
		err := policy.Do(context.Background(), func(_ int) error {
			calls++
			return wantErr
		})

		require.Error(t, err)
		require.ErrorIs(t, err, wantErr)
		require.Equal(t, 1, calls)
		require.Empty(t, delays)
	})

	t.Run("should pass one-based attempt numbers to the callback", func(t *testing.T) {
		var delays []time.Duration
		policy := testPolicy(&delays)

		var attempts []int
		_ = policy.Do(context.Background(), func(attempt int) error {
			attempts = append(attempts, attempt)
			return fmt.Errorf("backend: %w", domain.ErrRateLimited)
		})

		require.Equal(t, []int{1, 2, 3}, attempts)
	})

	t.Run("should honor a custom attempt cap and base delay", func(t *testing.T) {
		var delays []time.Duration
		policy := retry.Policy{
			MaxAttempts: 5,
			BaseDelay:   100 * time.Millisecond,
			Sleep: func(d time.Duration) {
				delays = append(delays, d)
			},
		}

		calls := 0
		err := policy.Do(context.Background(), func(_ int) error {
			calls++
			return fmt.Errorf("backend: %w", domain.ErrRateLimited)
		})

		require.Error(t, err)
		require.Equal(t, 5, calls)
		require.Equal(t, []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			400 * time.Millisecond,
			800 * time.Millisecond,
		}, delays)
	})
}

func TestDefaultPolicy(t *testing.T) {
	t.Run("should carry the standard attempt cap and base delay", func(t *testing.T) {
		policy := retry.DefaultPolicy()

		require.Equal(t, 3, policy.MaxAttempts)
		require.Equal(t, 1*time.Second, policy.BaseDelay)
		require.Nil(t, policy.Sleep)
	})
}
