// Package login is the sign-in and registration screen shown when no
// valid token is stored.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/auth"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/screen"
	"github.com/abhisek/adaptest/internal/ui/components"
	"github.com/abhisek/adaptest/internal/ui/layout"
	"github.com/abhisek/adaptest/internal/ui/theme"
)

// Authenticator logs users in and registers new ones.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.User, error)
	Register(ctx context.Context, email, password string) error
}

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// LoginScreen collects credentials. After a successful login the whole
// screen stack is replaced by the user's landing screen.
type LoginScreen struct {
	auth    Authenticator
	landing func(u *auth.User) screen.Screen

	mode     mode
	email    components.TextInput
	password components.TextInput
	confirm  components.TextInput
	focus    int
	busy     bool
	errMsg   string
	notice   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a login screen. notice is shown above the form, e.g. after
// the session expired.
func New(a Authenticator, landing func(u *auth.User) screen.Screen, notice string) *LoginScreen {
	return &LoginScreen{
		auth:     a,
		landing:  landing,
		email:    components.NewTextInput("Email", "you@example.com", 254),
		password: components.NewPasswordInput("Password"),
		confirm:  components.NewPasswordInput("Confirm password"),
		notice:   notice,
	}
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.focusField(0)
}

func (s *LoginScreen) Title() string {
	if s.mode == modeRegister {
		return "Register"
	}
	return "Log In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	other := "Register"
	if s.mode == modeRegister {
		other = "Log in"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+R", Description: other},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) fields() []*components.TextInput {
	if s.mode == modeRegister {
		return []*components.TextInput{&s.email, &s.password, &s.confirm}
	}
	return []*components.TextInput{&s.email, &s.password}
}

func (s *LoginScreen) focusField(i int) tea.Cmd {
	fields := s.fields()
	s.focus = (i + len(fields)) % len(fields)
	var cmd tea.Cmd
	for j, f := range fields {
		if j == s.focus {
			cmd = f.Focus()
		} else {
			f.Blur()
		}
	}
	if s.mode == modeLogin {
		s.confirm.Blur()
	}
	return cmd
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loggedInMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = errorText(msg.Err)
			return s, nil
		}
		next := s.landing(msg.User)
		return s, func() tea.Msg { return router.ResetScreenMsg{Screen: next} }

	case registeredMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = errorText(msg.Err)
			return s, nil
		}
		s.mode = modeLogin
		s.errMsg = ""
		s.notice = "Registration successful. Please log in."
		s.password.SetValue("")
		s.confirm.SetValue("")
		return s, s.focusField(1)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.focusField(s.focus + 1)
		case "shift+tab", "up":
			return s, s.focusField(s.focus - 1)
		case "ctrl+r":
			if s.mode == modeLogin {
				s.mode = modeRegister
			} else {
				s.mode = modeLogin
			}
			s.errMsg = ""
			s.notice = ""
			return s, s.focusField(0)
		case "enter":
			if s.focus < len(s.fields())-1 {
				return s, s.focusField(s.focus + 1)
			}
			return s.submit()
		}
	}

	// Forward everything else to the focused input.
	f := s.fields()[s.focus]
	var cmd tea.Cmd
	*f, cmd = f.Update(msg)
	return s, cmd
}

func (s *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()

	if s.mode == modeRegister && password != s.confirm.Value() {
		s.errMsg = "Passwords do not match"
		return s, nil
	}

	s.busy = true
	s.errMsg = ""
	a := s.auth
	if s.mode == modeRegister {
		return s, func() tea.Msg {
			return registeredMsg{Email: email, Err: a.Register(context.Background(), email, password)}
		}
	}
	return s, func() tea.Msg {
		u, err := a.Login(context.Background(), email, password)
		return loggedInMsg{User: u, Err: err}
	}
}

func errorText(err error) string {
	if errors.Is(err, auth.ErrInvalidInput) {
		return strings.TrimPrefix(err.Error(), auth.ErrInvalidInput.Error()+": ")
	}
	return api.Message(err)
}

func (s *LoginScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 50)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw - 6).Render(s.Title()))
	b.WriteString("\n\n")
	if s.notice != "" {
		b.WriteString(theme.Subtitle.Render(s.notice))
		b.WriteString("\n\n")
	}
	for _, f := range s.fields() {
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}
	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Please wait..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}
	return components.Center(components.Card(b.String(), cw), width, height)
}
