package retry

import (
	"context"
	"fmt"
	"time"
)

// Config defines bounded retry with a fixed delay between attempts. The
// pipeline retries connection acquisition only; individual load transactions
// never retry.
type Config struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultConfig returns the retry policy used for database connections:
// 5 attempts, 5 seconds apart.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		Delay:       5 * time.Second,
	}
}

// Do executes fn up to cfg.MaxAttempts times, waiting cfg.Delay between
// attempts. Returns nil on the first success, or the last error once
// attempts are exhausted. Respects context cancellation during waits.
func Do(ctx context.Context, cfg *Config, op string, fn func() error) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s canceled during retry wait: %w", op, ctx.Err())
		case <-time.After(cfg.Delay):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, cfg.MaxAttempts, lastErr)
}
