package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/abhisek/adaptest/internal/config"
)

func retryConfig() config.RetryConfig {
	return config.RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func getCall() Call {
	return Call{Method: http.MethodGet, Path: "/tests/t1/question"}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockTransport(MockReply{Body: `{}`})
	tr := WithRetry(mock, retryConfig())

	reply, err := tr.Do(context.Background(), getCall())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Status != 200 {
		t.Fatalf("unexpected status: %d", reply.Status)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_TransportErrorThenSuccess(t *testing.T) {
	mock := NewMockTransport(
		MockReply{Err: &ErrTransport{Err: errors.New("connection refused")}},
		MockReply{Body: `{}`},
	)
	tr := WithRetry(mock, retryConfig())

	if _, err := tr.Do(context.Background(), getCall()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ServerErrorsExhausted(t *testing.T) {
	mock := NewMockTransport(
		MockReply{Status: 502},
		MockReply{Status: 503},
		MockReply{Status: 500},
	)
	tr := WithRetry(mock, retryConfig())

	reply, err := tr.Do(context.Background(), getCall())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Status != 500 {
		t.Fatalf("expected last status 500, got %d", reply.Status)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ClientErrorNotRetried(t *testing.T) {
	mock := NewMockTransport(MockReply{Status: 404}, MockReply{Body: `{}`})
	tr := WithRetry(mock, retryConfig())

	reply, _ := tr.Do(context.Background(), getCall())
	if reply.Status != 404 {
		t.Fatalf("expected 404, got %d", reply.Status)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.CallCount())
	}
}

func TestRetry_MalformedNotRetried(t *testing.T) {
	mal := &ErrMalformed{Path: "/tests/t1/question", Err: errors.New("response body exceeds 32 bytes")}
	mock := NewMockTransport(MockReply{Err: mal}, MockReply{Body: `{}`})
	tr := WithRetry(mock, retryConfig())

	_, err := tr.Do(context.Background(), getCall())
	var got *ErrMalformed
	if !errors.As(err, &got) {
		t.Fatalf("expected *ErrMalformed, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call (no retry), got %d", mock.CallCount())
	}
}

func TestRetry_PostNeverRetried(t *testing.T) {
	mock := NewMockTransport(
		MockReply{Err: &ErrTransport{Err: errors.New("reset by peer")}},
		MockReply{Body: `{}`},
	)
	tr := WithRetry(mock, retryConfig())

	call := Call{Method: http.MethodPost, Path: "/tests/t1/questions/q1/answer", Body: []byte(`{"selected":1}`)}
	if _, err := tr.Do(context.Background(), call); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_DisabledByDefault(t *testing.T) {
	mock := NewMockTransport()
	tr := WithRetry(mock, config.DefaultConfig().Retry)
	if tr != Transport(mock) {
		t.Fatalf("expected transport to be returned unwrapped, got %T", tr)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockTransport(
		MockReply{Status: 503},
		MockReply{Status: 503},
		MockReply{Body: `{}`},
	)
	cfg := retryConfig()
	cfg.InitialWait = time.Second
	tr := WithRetry(mock, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Do(ctx, getCall())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_AttemptNumbers(t *testing.T) {
	var seen []int
	inner := transportFunc(func(ctx context.Context, call Call) (*Reply, error) {
		seen = append(seen, attemptFrom(ctx))
		return &Reply{Status: 503}, nil
	})
	tr := WithRetry(inner, retryConfig())

	tr.Do(context.Background(), getCall())
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("expected attempts [1 2 3], got %v", seen)
	}
}

type transportFunc func(ctx context.Context, call Call) (*Reply, error)

func (f transportFunc) Do(ctx context.Context, call Call) (*Reply, error) { return f(ctx, call) }
