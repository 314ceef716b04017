package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Call is a single backend request.
type Call struct {
	Method    string
	Path      string // relative to the base URL, e.g. /tests/{id}/question
	Body      []byte // JSON, nil for no body
	RequestID string
}

// Reply is a raw backend response.
type Reply struct {
	Status int
	Body   []byte
}

// Transport executes backend calls. Implementations return *ErrTransport
// when no response was received; any received status, including non-2xx,
// is a Reply.
type Transport interface {
	Do(ctx context.Context, call Call) (*Reply, error)
}

// TokenSource supplies the bearer token attached to each request.
type TokenSource interface {
	Token() string
}

// TokenStore is an in-memory TokenSource that can be updated after login.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// Token returns the current token, or "" when logged out.
func (s *TokenStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// MaxResponseBytes caps how much of a response body is read.
const MaxResponseBytes = 4 << 20

// HTTPTransport sends calls to the backend over HTTP.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	maxBody int64
}

// NewHTTPTransport creates a transport for baseURL. Every request is bounded
// by timeout; a zero timeout means no limit.
func NewHTTPTransport(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		maxBody: MaxResponseBytes,
	}
}

func (t *HTTPTransport) Do(ctx context.Context, call Call) (*Reply, error) {
	var body io.Reader
	if call.Body != nil {
		body = bytes.NewReader(call.Body)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, t.baseURL+call.Path, body)
	if err != nil {
		return nil, &ErrTransport{Method: call.Method, Path: call.Path, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if call.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if call.RequestID != "" {
		req.Header.Set("X-Request-ID", call.RequestID)
	}
	if t.tokens != nil {
		if tok := t.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &ErrTransport{Method: call.Method, Path: call.Path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody+1))
	if err != nil {
		return nil, &ErrTransport{Method: call.Method, Path: call.Path, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > t.maxBody {
		return nil, &ErrMalformed{Path: call.Path, Err: fmt.Errorf("response body exceeds %d bytes", t.maxBody)}
	}

	return &Reply{Status: resp.StatusCode, Body: data}, nil
}
