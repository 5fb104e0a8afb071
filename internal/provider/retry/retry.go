// Package retry implements the provider-level retry policy: rate-limit
// errors are retried with exponential backoff, anything else aborts
// immediately. Retries are local to the provider and invisible to the
// fallback chain.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/reelforge/llmcore/internal/domain"
	"github.com/reelforge/llmcore/internal/observability"
)

const (
	// DefaultMaxAttempts caps rate-limit retries per provider call.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the first backoff delay; it doubles per attempt.
	DefaultBaseDelay = 1 * time.Second
)

// Policy controls the retry loop. The zero value is not usable; use
// DefaultPolicy or fill every field.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep is swappable for tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// DefaultPolicy returns the standard policy: 3 attempts, 1s/2s/4s backoff.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Sleep:       nil,
	}
}

// Do invokes fn up to MaxAttempts times. Only errors matching
// domain.ErrRateLimited are retried; the backoff doubles between attempts.
// The attempt number passed to fn is 1-based.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	logger := observability.FromContext(ctx)

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err = fn(attempt)
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrRateLimited) {
			return err
		}

		if attempt == p.MaxAttempts {
			logger.Error("rate limit exceeded after retries",
				observability.Int("attempts", attempt))
			return err
		}

		delay := p.BaseDelay << (attempt - 1)
		logger.Warn("rate limit hit, backing off",
			observability.Int("attempt", attempt),
			observability.Int("max_attempts", p.MaxAttempts),
			observability.Duration("delay", delay))
		sleep(delay)
	}

	return err
}
