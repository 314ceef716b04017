package api

import "context"

type contextKey string

const attemptKey contextKey = "api_attempt"

// withAttempt records the 1-based attempt number for event logging.
func withAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey, attempt)
}

// attemptFrom extracts the attempt number from the context.
func attemptFrom(ctx context.Context) int {
	if v, ok := ctx.Value(attemptKey).(int); ok {
		return v
	}
	return 1
}
