package selfupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/abhisek/adaptest/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		tag       string
		wantNewer bool
	}{
		{"newer available", "v1.0.0", "v1.2.0", true},
		{"same version", "v1.2.0", "v1.2.0", false},
		{"ahead of release", "v2.0.0", "v1.9.9", false},
		{"missing prefix", "1.0.0", "1.0.1", true},
		{"prerelease older", "v1.1.0-rc.1", "v1.1.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := releaseServer(t, http.StatusOK, `{"tag_name":"`+tt.tag+`","html_url":"https://example.com/r"}`)
			checker := NewChecker(WithBaseURL(server.URL))

			res, err := checker.Check(context.Background(), &CheckInput{Version: tt.current})
			require.NoError(t, err)
			assert.Equal(t, tt.wantNewer, res.UpdateAvailable)
			assert.Equal(t, "https://example.com/r", res.ReleaseURL)
		})
	}
}

func TestCheck_DevBuild(t *testing.T) {
	_, err := NewChecker().Check(context.Background(), &CheckInput{Version: DevVersion})
	assert.ErrorIs(t, err, ErrDevBuild)
}

func TestCheck_InvalidVersions(t *testing.T) {
	server := releaseServer(t, http.StatusOK, `{"tag_name":"latest"}`)
	checker := NewChecker(WithBaseURL(server.URL))

	_, err := checker.Check(context.Background(), &CheckInput{Version: "not-a-version"})
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = checker.Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestCheck_HTTPError(t *testing.T) {
	server := releaseServer(t, http.StatusInternalServerError, ``)
	checker := NewChecker(WithBaseURL(server.URL))

	_, err := checker.Check(context.Background(), &CheckInput{Version: "v1.0.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestCheck_OtherRepo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/tool/releases/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"tag_name":"v0.2.0"}`))
	}))
	defer server.Close()

	checker := NewChecker(WithBaseURL(server.URL+"/"), WithRepo("acme", "tool"))
	res, err := checker.Check(context.Background(), &CheckInput{Version: "v0.1.0"})
	require.NoError(t, err)
	assert.Equal(t, "v0.2.0", res.LatestVersion)
}
