package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // id > After
	From  time.Time // timestamp >= From
}

// RequestEventData captures a single backend HTTP request.
type RequestEventData struct {
	RequestID    string
	Method       string
	Path         string
	Status       int
	LatencyMs    int64
	Attempt      int
	Success      bool
	ErrorMessage string
}

// RequestEventRecord is a persisted RequestEventData.
type RequestEventRecord struct {
	ID        int64
	Timestamp time.Time
	RequestEventData
}

// ClientEventKind classifies a client-side diagnostic.
type ClientEventKind string

const (
	KindTransport  ClientEventKind = "transport"
	KindStatus     ClientEventKind = "status"
	KindMalformed  ClientEventKind = "malformed"
	KindValidation ClientEventKind = "validation"
	KindInternal   ClientEventKind = "internal"
)

// ClientEventData captures a diagnostic raised by a screen or the runner.
type ClientEventData struct {
	Kind    ClientEventKind
	Screen  string
	Message string
}

// ClientEventRecord is a persisted ClientEventData.
type ClientEventRecord struct {
	ID        int64
	Timestamp time.Time
	ClientEventData
}

// SessionEventData journals one step of a local test session.
type SessionEventData struct {
	SessionID  string // local UUID for one run of the test screen
	TestID     string
	Action     string // start, answer, timeout, skip, finish, abandon
	QuestionID string
	Selected   int
	Answered   int
	Score      float64
}

// SessionEventRecord is a persisted SessionEventData.
type SessionEventRecord struct {
	ID        int64
	Timestamp time.Time
	SessionEventData
}

// EventRepo provides append and query access to local diagnostic events.
type EventRepo interface {
	// AppendRequestEvent records a backend HTTP request.
	AppendRequestEvent(ctx context.Context, data RequestEventData) error

	// AppendClientEvent records a client-side diagnostic.
	AppendClientEvent(ctx context.Context, data ClientEventData) error

	// AppendSessionEvent journals a test session step.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QueryRequestEvents returns request events, newest first.
	QueryRequestEvents(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)

	// QueryClientEvents returns client diagnostics, newest first.
	QueryClientEvents(ctx context.Context, opts QueryOpts) ([]ClientEventRecord, error)

	// QuerySessionEvents returns the journal of one local session in order.
	QuerySessionEvents(ctx context.Context, sessionID string) ([]SessionEventRecord, error)
}

// Credentials is the locally persisted login, the equivalent of the
// browser's token cookie.
type Credentials struct {
	Token     string
	Email     string
	IsAdmin   bool
	ServerURL string
	SavedAt   time.Time
}

// CredentialRepo persists at most one set of credentials.
type CredentialRepo interface {
	// Save replaces any stored credentials.
	Save(ctx context.Context, creds Credentials) error

	// Load returns the stored credentials, or nil if none exist.
	Load(ctx context.Context) (*Credentials, error)

	// Clear removes stored credentials. Clearing when empty is not an error.
	Clear(ctx context.Context) error
}
