package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultConfig returns the retry policy used for generation calls:
// 3 attempts total, sleeping 1s then 2s between them.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// WithBackoff executes a function, retrying every failure with exponential
// backoff. The delay before attempt n+1 is BaseDelay * 2^n. The last error
// is returned once attempts are exhausted.
func WithBackoff(ctx context.Context, config Config, operation func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err = operation(ctx)
		if err == nil {
			return nil
		}

		// Don't sleep after the last attempt
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := config.BaseDelay * time.Duration(1<<attempt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			// Continue to next attempt
		}
	}

	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, err)
}
