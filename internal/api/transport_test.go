package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPTransport_BodyWithinLimit(t *testing.T) {
	srv := bodyServer(t, `{"_id":"q1"}`)
	tr := NewHTTPTransport(srv.URL, time.Second, nil)
	tr.maxBody = int64(len(`{"_id":"q1"}`))

	reply, err := tr.Do(context.Background(), getCall())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, reply.Status)
	assert.JSONEq(t, `{"_id":"q1"}`, string(reply.Body))
}

func TestHTTPTransport_BodyOverLimit(t *testing.T) {
	srv := bodyServer(t, `{"text":"`+strings.Repeat("x", 64)+`"}`)
	tr := NewHTTPTransport(srv.URL, time.Second, nil)
	tr.maxBody = 32

	reply, err := tr.Do(context.Background(), getCall())
	assert.Nil(t, reply)
	var mal *ErrMalformed
	require.ErrorAs(t, err, &mal)
	assert.Equal(t, "/tests/t1/question", mal.Path)
	assert.Contains(t, mal.Error(), "exceeds 32 bytes")
}

func TestHTTPTransport_DefaultLimit(t *testing.T) {
	tr := NewHTTPTransport("http://localhost", 0, nil)
	assert.Equal(t, int64(MaxResponseBytes), tr.maxBody)
}
