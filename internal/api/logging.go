package api

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/adaptest/internal/store"
)

// LoggingTransport is a decorator that records every backend call as an
// event.
type LoggingTransport struct {
	inner     Transport
	eventRepo store.EventRepo
}

// WithLogging wraps a Transport with event logging.
func WithLogging(t Transport, repo store.EventRepo) Transport {
	return &LoggingTransport{inner: t, eventRepo: repo}
}

func (l *LoggingTransport) Do(ctx context.Context, call Call) (*Reply, error) {
	start := time.Now()

	reply, err := l.inner.Do(ctx, call)

	data := store.RequestEventData{
		RequestID: call.RequestID,
		Method:    call.Method,
		Path:      call.Path,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempt:   attemptFrom(ctx),
	}
	if reply != nil {
		data.Status = reply.Status
		data.Success = reply.Status >= 200 && reply.Status < 300
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendRequestEvent(context.WithoutCancel(ctx), data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log request event: %v\n", logErr)
	}

	return reply, err
}
