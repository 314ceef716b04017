package api

import (
	"context"
	"sync"
)

// MockReply is a canned reply for the MockTransport.
type MockReply struct {
	Status int // defaults to 200
	Body   string
	Err    error
}

// MockTransport is a deterministic Transport for testing.
// It returns canned replies in FIFO order and records all calls.
type MockTransport struct {
	mu      sync.Mutex
	replies []MockReply
	Calls   []Call
}

// NewMockTransport creates a MockTransport with the given canned replies.
func NewMockTransport(replies ...MockReply) *MockTransport {
	return &MockTransport{replies: replies}
}

// Do returns the next canned reply, or *ErrTransport if the queue is empty.
func (m *MockTransport) Do(_ context.Context, call Call) (*Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, call)

	if len(m.replies) == 0 {
		return nil, &ErrTransport{Method: call.Method, Path: call.Path, Err: errNoReply}
	}

	r := m.replies[0]
	m.replies = m.replies[1:]

	if r.Err != nil {
		return nil, r.Err
	}
	status := r.Status
	if status == 0 {
		status = 200
	}
	return &Reply{Status: status, Body: []byte(r.Body)}, nil
}

// AddReply appends a canned reply to the queue.
func (m *MockTransport) AddReply(r MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}

// CallCount returns the number of Do calls made.
func (m *MockTransport) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

type mockErr string

func (e mockErr) Error() string { return string(e) }

const errNoReply = mockErr("mock: no reply queued")
