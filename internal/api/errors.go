package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abhisek/adaptest/internal/store"
)

// ErrTransport indicates the request never completed (connection
// failure, timeout, cancelled context).
type ErrTransport struct {
	Method string
	Path   string
	Err    error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *ErrTransport) Unwrap() error { return e.Err }

// ErrStatus indicates the backend answered with a non-2xx status.
type ErrStatus struct {
	Method  string
	Path    string
	Status  int
	Message string // server-provided message, if any
}

func (e *ErrStatus) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// IsUnauthorized reports whether the stored token was rejected.
func (e *ErrStatus) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Temporary reports whether the status is worth retrying.
func (e *ErrStatus) Temporary() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// ErrMalformed indicates a response body that could not be decoded at all.
// Bodies that decode but violate their schema are reported and defaulted
// instead.
type ErrMalformed struct {
	Path string
	Body []byte
	Err  error
}

func (e *ErrMalformed) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Path, e.Err)
}

func (e *ErrMalformed) Unwrap() error { return e.Err }

// IsUnauthorized reports whether err is a 401/403 from the backend.
func IsUnauthorized(err error) bool {
	var st *ErrStatus
	return errors.As(err, &st) && st.IsUnauthorized()
}

// Message returns a short user-facing description of err.
func Message(err error) string {
	var (
		tr  *ErrTransport
		st  *ErrStatus
		mal *ErrMalformed
	)
	switch {
	case errors.As(err, &st):
		if st.Message != "" {
			return st.Message
		}
		if st.IsUnauthorized() {
			return "Session expired, please log in again"
		}
		return fmt.Sprintf("Server error (%d)", st.Status)
	case errors.As(err, &tr):
		return "Could not reach the server"
	case errors.As(err, &mal):
		return "The server sent an unreadable response"
	case err != nil:
		return err.Error()
	}
	return ""
}

// Kind classifies err for the diagnostic log.
func Kind(err error) store.ClientEventKind {
	var (
		tr  *ErrTransport
		st  *ErrStatus
		mal *ErrMalformed
	)
	switch {
	case errors.As(err, &st):
		return store.KindStatus
	case errors.As(err, &tr):
		return store.KindTransport
	case errors.As(err, &mal):
		return store.KindMalformed
	}
	return store.KindInternal
}
