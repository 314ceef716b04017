package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/store"
)

const server = "http://localhost:5000/api"

func newService(t *testing.T, replies ...api.MockReply) (*Service, *api.MockTransport, *api.TokenStore, store.CredentialRepo) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := api.NewMockTransport(replies...)
	tokens := &api.TokenStore{}
	creds := s.CredentialRepo()
	return NewService(api.New(mock, nil), creds, tokens, server), mock, tokens, creds
}

func TestLogin_StoresToken(t *testing.T) {
	svc, mock, tokens, creds := newService(t, api.MockReply{Body: `{"token":"tok-1","isAdmin":true,"email":"ada@example.com"}`})
	ctx := context.Background()

	u, err := svc.Login(ctx, " ada@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, &User{Email: "ada@example.com", IsAdmin: true}, u)
	assert.Equal(t, "tok-1", tokens.Token())
	require.Equal(t, 1, mock.CallCount())
	assert.JSONEq(t, `{"email":"ada@example.com","password":"secret"}`, string(mock.Calls[0].Body))

	saved, err := creds.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "tok-1", saved.Token)
	assert.Equal(t, server, saved.ServerURL)
}

func TestLogin_Rejected(t *testing.T) {
	svc, _, tokens, _ := newService(t, api.MockReply{Status: 401, Body: `{"message":"Invalid credentials"}`})

	_, err := svc.Login(context.Background(), "ada@example.com", "nope")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Empty(t, tokens.Token())
	assert.Nil(t, svc.Current())
}

func TestLogin_ValidatesBeforeRequest(t *testing.T) {
	tests := []struct {
		name, email, password string
	}{
		{"empty email", "", "secret"},
		{"empty password", "ada@example.com", ""},
		{"bad email", "not-an-email", "secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, _, _ := newService(t)
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, mock.CallCount())
		})
	}
}

func TestRestore(t *testing.T) {
	svc, _, tokens, creds := newService(t)
	ctx := context.Background()

	u, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, u, "nothing stored")

	require.NoError(t, creds.Save(ctx, store.Credentials{Token: "tok-9", Email: "bob@example.com", ServerURL: server}))
	u, err = svc.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "bob@example.com", u.Email)
	assert.False(t, u.IsAdmin)
	assert.Equal(t, "tok-9", tokens.Token())
}

func TestRestore_OtherServerIgnored(t *testing.T) {
	svc, _, tokens, creds := newService(t)
	ctx := context.Background()

	require.NoError(t, creds.Save(ctx, store.Credentials{Token: "tok", Email: "a@example.com", ServerURL: "https://elsewhere/api"}))
	u, err := svc.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Empty(t, tokens.Token())
}

func TestLogout(t *testing.T) {
	svc, _, tokens, creds := newService(t, api.MockReply{Body: `{"token":"tok-1","email":"ada@example.com"}`})
	ctx := context.Background()

	_, err := svc.Login(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	assert.Nil(t, svc.Current())
	assert.Empty(t, tokens.Token())
	saved, err := creds.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestRegister(t *testing.T) {
	svc, mock, tokens, _ := newService(t, api.MockReply{Status: 201, Body: `{"message":"User registered"}`})

	require.NoError(t, svc.Register(context.Background(), "new@example.com", "pw"))
	require.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "/register_user", mock.Calls[0].Path)
	assert.Empty(t, tokens.Token(), "registering does not log in")
}

func TestRegister_Conflict(t *testing.T) {
	svc, _, _, _ := newService(t, api.MockReply{Status: 400, Body: `{"message":"User already exists"}`})

	err := svc.Register(context.Background(), "dup@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "User already exists", api.Message(err))
}
