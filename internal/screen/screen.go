package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that refresh when they become active
// again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// EscapeHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}

// LogoutMsg asks the app to forget the user and return to login.
type LogoutMsg struct{}

// SessionExpiredMsg is sent when the backend rejects the stored token.
type SessionExpiredMsg struct{}

// Expired returns a command reporting SessionExpiredMsg when err is an
// authorization failure, or nil otherwise.
func Expired(err error) tea.Cmd {
	if !api.IsUnauthorized(err) {
		return nil
	}
	return func() tea.Msg { return SessionExpiredMsg{} }
}
