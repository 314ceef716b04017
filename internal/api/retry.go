package api

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/abhisek/adaptest/internal/config"
)

// RetryTransport is a decorator that retries idempotent GET calls with
// exponential backoff and jitter. Other methods pass through untouched so an
// answer is never submitted twice.
type RetryTransport struct {
	inner  Transport
	config config.RetryConfig
}

// WithRetry wraps a Transport with retry logic. MaxAttempts <= 1 returns
// the transport unchanged.
func WithRetry(t Transport, cfg config.RetryConfig) Transport {
	if cfg.MaxAttempts <= 1 {
		return t
	}
	return &RetryTransport{inner: t, config: cfg}
}

func (r *RetryTransport) Do(ctx context.Context, call Call) (*Reply, error) {
	if call.Method != http.MethodGet {
		return r.inner.Do(ctx, call)
	}

	var (
		reply   *Reply
		lastErr error
	)
	for attempt := range r.config.MaxAttempts {
		reply, lastErr = r.inner.Do(withAttempt(ctx, attempt+1), call)
		if !r.shouldRetry(reply, lastErr) {
			return reply, lastErr
		}

		// Last attempt: return what we have.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, &ErrTransport{Method: call.Method, Path: call.Path, Err: ctx.Err()}
		case <-time.After(r.backoff(attempt)):
		}
	}
	return reply, lastErr
}

// shouldRetry retries transport failures and 5xx/429 replies.
func (r *RetryTransport) shouldRetry(reply *Reply, err error) bool {
	if err != nil {
		var mal *ErrMalformed
		if errors.As(err, &mal) {
			return false
		}
		// Context errors are never retried.
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	st := &ErrStatus{Status: reply.Status}
	return st.Temporary()
}

// backoff computes the wait duration for the given attempt.
func (r *RetryTransport) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
