// Package auth manages the logged-in user: login, registration, logout and
// the locally stored token that stands in for a browser cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/store"
)

// ErrInvalidInput is returned for credentials rejected before any request.
var ErrInvalidInput = errors.New("invalid input")

// Backend is the part of the API client auth needs.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (api.LoginResult, error)
	Register(ctx context.Context, creds api.Credentials) error
}

// User is the logged-in identity.
type User struct {
	Email   string
	IsAdmin bool
}

// Service owns the current user and token.
type Service struct {
	backend   Backend
	creds     store.CredentialRepo
	tokens    *api.TokenStore
	serverURL string

	mu   sync.RWMutex
	user *User
}

// NewService creates an auth service. tokens is shared with the API
// transport so a login takes effect on the next request.
func NewService(backend Backend, creds store.CredentialRepo, tokens *api.TokenStore, serverURL string) *Service {
	return &Service{backend: backend, creds: creds, tokens: tokens, serverURL: serverURL}
}

// Restore loads stored credentials. Credentials saved for a different
// server are ignored. It returns nil when nobody is logged in.
func (s *Service) Restore(ctx context.Context) (*User, error) {
	c, err := s.creds.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	if c == nil || c.Token == "" || c.ServerURL != s.serverURL {
		return nil, nil
	}
	s.set(c.Token, &User{Email: c.Email, IsAdmin: c.IsAdmin})
	return s.Current(), nil
}

// Login authenticates and stores the token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	creds, err := validate(email, password)
	if err != nil {
		return nil, err
	}

	res, err := s.backend.Login(ctx, creds)
	if err != nil {
		return nil, err
	}

	if err := s.creds.Save(ctx, store.Credentials{
		Token:     res.Token,
		Email:     res.Email,
		IsAdmin:   res.IsAdmin,
		ServerURL: s.serverURL,
		SavedAt:   time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}

	s.set(res.Token, &User{Email: res.Email, IsAdmin: res.IsAdmin})
	return s.Current(), nil
}

// Register creates an account. It does not log in.
func (s *Service) Register(ctx context.Context, email, password string) error {
	creds, err := validate(email, password)
	if err != nil {
		return err
	}
	return s.backend.Register(ctx, creds)
}

// Logout forgets the token locally. The backend keeps no session to end.
func (s *Service) Logout(ctx context.Context) error {
	s.set("", nil)
	if err := s.creds.Clear(ctx); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Current returns the logged-in user, or nil.
func (s *Service) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Service) set(token string, u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.tokens.Set(token)
}

func validate(email, password string) (api.Credentials, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return api.Credentials{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return api.Credentials{}, fmt.Errorf("%w: %q is not a valid email", ErrInvalidInput, email)
	}
	return api.Credentials{Email: email, Password: password}, nil
}
