package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/auth"
	"github.com/abhisek/adaptest/internal/config"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/screen"
)

type fakeBackend struct{}

func (fakeBackend) StartTest(context.Context) (string, error) { return "t1", nil }
func (fakeBackend) NextQuestion(context.Context, string) (*api.Question, error) {
	return nil, nil
}
func (fakeBackend) SubmitAnswer(context.Context, string, string, int) (api.AnswerResult, error) {
	return api.AnswerResult{}, nil
}
func (fakeBackend) History(context.Context) ([]api.Test, error)           { return nil, nil }
func (fakeBackend) Questions(context.Context) ([]api.BankQuestion, error) { return nil, nil }
func (fakeBackend) CreateQuestion(context.Context, api.BankQuestion) error { return nil }
func (fakeBackend) UpdateQuestion(context.Context, api.BankQuestion) error { return nil }
func (fakeBackend) DeleteQuestion(context.Context, string) error           { return nil }
func (fakeBackend) AllResults(context.Context) ([]api.TestResult, error)  { return nil, nil }

type fakeSession struct {
	user    *auth.User
	logouts int
}

func (f *fakeSession) Login(_ context.Context, email, _ string) (*auth.User, error) {
	f.user = &auth.User{Email: email}
	return f.user, nil
}
func (f *fakeSession) Register(context.Context, string, string) error { return nil }
func (f *fakeSession) Logout(context.Context) error {
	f.logouts++
	f.user = nil
	return nil
}
func (f *fakeSession) Current() *auth.User { return f.user }

func newApp(u *auth.User) (AppModel, *fakeSession) {
	sess := &fakeSession{user: u}
	m := New(Options{Config: config.DefaultConfig(), Backend: fakeBackend{}, Session: sess, ExportDir: "."})
	return m, sess
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

type stubScreen struct {
	title   string
	escapes bool
	keys    []string
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) HandlesEscape() bool  { return s.escapes }

func TestNew_StartsOnLogin(t *testing.T) {
	m, _ := newApp(nil)
	if got := m.router.Active().Title(); got != "Log In" {
		t.Errorf("initial screen = %q, want Log In", got)
	}
}

func TestNew_RestoredUserLanding(t *testing.T) {
	learner, _ := newApp(&auth.User{Email: "ada@example.com"})
	if got := learner.router.Active().Title(); got != "Dashboard" {
		t.Errorf("learner landing = %q", got)
	}
	adminApp, _ := newApp(&auth.User{Email: "root@example.com", IsAdmin: true})
	if got := adminApp.router.Active().Title(); got != "Admin" {
		t.Errorf("admin landing = %q", got)
	}
}

func TestEscPopsPlainScreens(t *testing.T) {
	m, _ := newApp(&auth.User{Email: "ada@example.com"})
	m.router.Push(&stubScreen{title: "child"})

	m, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscForwardedToEscapeHandler(t *testing.T) {
	m, _ := newApp(&auth.User{Email: "ada@example.com"})
	child := &stubScreen{title: "child", escapes: true}
	m.router.Push(child)

	update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if len(child.keys) != 1 || child.keys[0] != "esc" {
		t.Errorf("screen got keys %v, want [esc]", child.keys)
	}
	if m.router.Depth() != 2 {
		t.Error("app should not pop a screen that handles esc")
	}
}

func TestEscAtRootIgnored(t *testing.T) {
	m, _ := newApp(&auth.User{Email: "ada@example.com"})
	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("esc on the root screen should do nothing")
	}
}

func TestLogoutResetsToLogin(t *testing.T) {
	m, sess := newApp(&auth.User{Email: "ada@example.com"})
	m.router.Push(&stubScreen{title: "child"})

	m, _ = update(m, screen.LogoutMsg{})
	if sess.logouts != 1 {
		t.Errorf("logouts = %d", sess.logouts)
	}
	if m.router.Depth() != 1 || m.router.Active().Title() != "Log In" {
		t.Errorf("after logout: depth %d, %q", m.router.Depth(), m.router.Active().Title())
	}
}

func TestSessionExpiredShowsNotice(t *testing.T) {
	m, sess := newApp(&auth.User{Email: "ada@example.com"})
	m, _ = update(m, screen.SessionExpiredMsg{})
	if sess.logouts != 1 {
		t.Error("expected logout")
	}
	if !strings.Contains(m.router.View(100, 40), SessionExpiredNotice) {
		t.Error("login screen should show the expiry notice")
	}
}
