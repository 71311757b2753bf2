// Package retry gives a failed catalog load more chances.
// The country fetcher never retries on its own; the command line wraps its
// first load with Do and a Policy that says which failures are worth waiting
// for.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"countryquiz/internal/resilience/circuitbreaker"
	"countryquiz/internal/usecase/catalog"
	"countryquiz/internal/usecase/fetch"
)

// ErrExhausted wraps the last failure once every attempt has been used.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy describes how often and how patiently an operation is retried.
type Policy struct {
	// Attempts is the total number of calls, the first one included.
	// Values below 1 mean a single call.
	Attempts int

	// BaseDelay is the pause after the first failure. Each further failure
	// doubles it, up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Jitter adds a random extra pause of up to this fraction of the delay.
	Jitter float64

	// Retryable decides whether a failure deserves another call.
	// Nil means IsTransient.
	Retryable func(error) bool
}

// CatalogLoadPolicy is used by the command line around the first catalog
// load. A load superseded by a newer one is final: the newer load owns the
// result.
func CatalogLoadPolicy(attempts int) Policy {
	return Policy{
		Attempts:  max(attempts, 1),
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  5 * time.Second,
		Jitter:    0.1,
		Retryable: func(err error) bool {
			return !errors.Is(err, catalog.ErrSuperseded) && IsTransient(err)
		},
	}
}

// Delay returns the pause after the given number of consecutive failures,
// without jitter.
func (p Policy) Delay(failures int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < failures && (p.MaxDelay <= 0 || d < p.MaxDelay); i++ {
		d *= 2
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

func (p Policy) wait(failures int) time.Duration {
	d := p.Delay(failures)
	if p.Jitter <= 0 || d <= 0 {
		return d
	}
	// #nosec G404 -- jitter does not need a cryptographic source
	return d + time.Duration(rand.Float64()*min(p.Jitter, 1)*float64(d))
}

// Do calls fn until it succeeds, fails in a way the policy does not retry,
// or runs out of attempts. Waits between calls end early when ctx is done.
//
// Returns:
//   - nil when a call succeeded
//   - the failure itself when it is not retryable or only one attempt was allowed
//   - an error wrapping ErrExhausted and the last failure otherwise
//   - an error wrapping ctx.Err() when ctx ends while waiting
//
// Example:
//
//	err := retry.Do(ctx, logger, retry.CatalogLoadPolicy(3), func(ctx context.Context) error {
//	    return cat.Load(ctx, false)
//	})
func Do(ctx context.Context, logger *slog.Logger, p Policy, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	attempts := max(p.Attempts, 1)

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("succeeded after retrying", slog.Int("attempt", attempt))
			}
			return nil
		}

		if ctx.Err() != nil || !retryable(err) {
			return err
		}
		if attempt == attempts {
			if attempts == 1 {
				return err
			}
			return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, err)
		}

		wait := p.wait(attempt)
		logger.Warn("attempt failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("attempts", attempts),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry interrupted after attempt %d: %w", attempt, ctx.Err())
		case <-timer.C:
		}
	}
}

// IsTransient reports whether err is a fetch failure that may clear up by
// itself: no response at all, a 5xx, 408 or 429.
// Decoding errors, other statuses, oversized bodies, breaker rejections and
// cancellations are final.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, fetch.ErrDecoding) ||
		errors.Is(err, fetch.ErrBodyTooLarge) ||
		circuitbreaker.IsRejection(err) {
		return false
	}

	var transportErr *fetch.TransportError
	if !errors.As(err, &transportErr) {
		return false
	}

	switch code := transportErr.StatusCode; {
	case code == 0:
		return true
	case code >= http.StatusInternalServerError:
		return true
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests:
		return true
	}
	return false
}
