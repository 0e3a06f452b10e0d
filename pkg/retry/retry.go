package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts  uint
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// RetryIf limits which errors are retried. Nil retries every error.
	RetryIf func(error) bool
	OnRetry func(attempt uint, err error)
}

// DefaultConfig performs a single attempt.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  1,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
	}
}

// Do executes a function with exponential backoff retry. OnRetry runs just
// before each attempt after the first.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(cfg.InitialDelay),
		retry.MaxDelay(cfg.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
	if cfg.RetryIf != nil {
		opts = append(opts, retry.RetryIf(func(err error) bool {
			return retry.IsRecoverable(err) && cfg.RetryIf(err)
		}))
	}

	var (
		attempt uint
		lastErr error
	)
	return retry.Do(func() error {
		if attempt > 0 && cfg.OnRetry != nil {
			cfg.OnRetry(attempt, lastErr)
		}
		attempt++
		lastErr = fn()
		return lastErr
	}, opts...)
}

// DoWithResult executes a function with exponential backoff retry and returns a result
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}

// Unrecoverable marks err so Do returns it without further attempts.
func Unrecoverable(err error) error {
	return retry.Unrecoverable(err)
}
