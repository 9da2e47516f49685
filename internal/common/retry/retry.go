// Package retry wraps external calls with bounded attempts and exponential
// backoff. Only errors classified retryable by the errors package trigger
// another attempt; everything else propagates immediately.
package retry

import (
	"context"
	"time"

	apperrors "content-workers/internal/common/errors"
	"content-workers/internal/common/logger"
	"content-workers/internal/common/metrics"
)

// Policy holds the backoff schedule for a wrapped call.
type Policy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultPolicy mirrors the deployment defaults: 3 attempts, 1s..10s, x2.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     10 * time.Second,
		Multiplier:     2.0,
	}
}

// Do executes fn, retrying transient failures per the policy. On exhausting
// attempts the last transient error is returned unchanged. A non-retryable
// error returns after the first occurrence.
func (p Policy) Do(ctx context.Context, operation string, log logger.Logger, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	backoff := p.InitialBackoff

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !apperrors.IsRetryable(lastErr) {
			return lastErr
		}

		if attempt == attempts {
			break
		}

		metrics.LLMRetries.WithLabelValues(operation).Inc()
		log.Warn("transient failure, retrying", map[string]interface{}{
			"operation":   operation,
			"attempt":     attempt,
			"maxAttempts": attempts,
			"nextRetryIn": backoff.String(),
			"error":       lastErr.Error(),
		})

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * p.Multiplier)
		if backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}

	return lastErr
}
