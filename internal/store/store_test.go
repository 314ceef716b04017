package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	s := openTestStore(t)

	for _, tbl := range tables {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", tbl.Name).Scan(&name)
		require.NoError(t, err, "table %s", tbl.Name)

		for _, idx := range tbl.Indexes {
			var count int
			require.NoError(t, s.DB().QueryRow(
				"SELECT count(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name = ?",
				tbl.Name, idx.Name).Scan(&count))
			assert.Equal(t, 1, count, "index %s on %s", idx.Name, tbl.Name)
		}
	}

	// Column defaults come from the migration, not the insert.
	_, err := s.DB().Exec("INSERT INTO client_events (timestamp, kind, message) VALUES (1, 'status', 'boom')")
	require.NoError(t, err)
	var screen string
	require.NoError(t, s.DB().QueryRow("SELECT screen FROM client_events").Scan(&screen))
	assert.Empty(t, screen)
}

func TestCredentials_RoundTrip(t *testing.T) {
	repo := openTestStore(t).CredentialRepo()
	ctx := context.Background()

	creds, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds, "no credentials stored yet")

	saved := time.Now().Truncate(time.Millisecond)
	require.NoError(t, repo.Save(ctx, Credentials{
		Token:     "tok-1",
		Email:     "ada@example.com",
		IsAdmin:   true,
		ServerURL: "http://localhost:5000/api",
		SavedAt:   saved,
	}))

	creds, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "tok-1", creds.Token)
	assert.Equal(t, "ada@example.com", creds.Email)
	assert.True(t, creds.IsAdmin)
	assert.True(t, saved.Equal(creds.SavedAt))
}

func TestCredentials_SaveReplaces(t *testing.T) {
	repo := openTestStore(t).CredentialRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, Credentials{Token: "old", Email: "a@example.com"}))
	require.NoError(t, repo.Save(ctx, Credentials{Token: "new", Email: "b@example.com"}))

	creds, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "new", creds.Token)
	assert.Equal(t, "b@example.com", creds.Email)
	assert.False(t, creds.IsAdmin)
}

func TestCredentials_Clear(t *testing.T) {
	repo := openTestStore(t).CredentialRepo()
	ctx := context.Background()

	require.NoError(t, repo.Clear(ctx), "clearing empty store")
	require.NoError(t, repo.Save(ctx, Credentials{Token: "tok"}))
	require.NoError(t, repo.Clear(ctx))

	creds, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestRequestEvents_AppendAndQuery(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendRequestEvent(ctx, RequestEventData{
		RequestID: "r1", Method: "GET", Path: "/tests/t1/question", Status: 200, LatencyMs: 12, Success: true,
	}))
	require.NoError(t, repo.AppendRequestEvent(ctx, RequestEventData{
		RequestID: "r2", Method: "POST", Path: "/tests/t1/questions/q1/answer", ErrorMessage: "connection refused",
	}))

	events, err := repo.QueryRequestEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, "r2", events[0].RequestID)
	assert.False(t, events[0].Success)
	assert.Equal(t, "connection refused", events[0].ErrorMessage)
	assert.Equal(t, 1, events[0].Attempt, "attempt defaults to 1")
	assert.Equal(t, "r1", events[1].RequestID)
	assert.True(t, events[1].Success)
	assert.Equal(t, 200, events[1].Status)

	limited, err := repo.QueryRequestEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "r2", limited[0].RequestID)

	after, err := repo.QueryRequestEvents(ctx, QueryOpts{After: events[1].ID})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "r2", after[0].RequestID)
}

func TestClientEvents_AppendAndQuery(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendClientEvent(ctx, ClientEventData{
		Kind: KindMalformed, Screen: "Test", Message: "question: missing options",
	}))

	events, err := repo.QueryClientEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, KindMalformed, events[0].Kind)
	assert.Equal(t, "Test", events[0].Screen)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestSessionEvents_Journal(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	steps := []SessionEventData{
		{SessionID: "s1", TestID: "t1", Action: "start"},
		{SessionID: "s1", TestID: "t1", Action: "answer", QuestionID: "q1", Selected: 2, Answered: 1},
		{SessionID: "other", TestID: "t2", Action: "start"},
		{SessionID: "s1", TestID: "t1", Action: "timeout", QuestionID: "q2", Selected: -1, Answered: 2},
		{SessionID: "s1", TestID: "t1", Action: "finish", Answered: 2, Score: 3},
	}
	for _, s := range steps {
		require.NoError(t, repo.AppendSessionEvent(ctx, s))
	}

	journal, err := repo.QuerySessionEvents(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, journal, 4)

	actions := make([]string, len(journal))
	for i, e := range journal {
		actions[i] = e.Action
	}
	assert.Equal(t, []string{"start", "answer", "timeout", "finish"}, actions)
	assert.Equal(t, -1, journal[2].Selected)
	assert.InDelta(t, 3.0, journal[3].Score, 1e-9)
}
