package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptest/internal/auth"
	"github.com/abhisek/adaptest/internal/config"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/screen"
	"github.com/abhisek/adaptest/internal/screens/admin"
	"github.com/abhisek/adaptest/internal/screens/history"
	"github.com/abhisek/adaptest/internal/screens/home"
	"github.com/abhisek/adaptest/internal/screens/login"
	"github.com/abhisek/adaptest/internal/screens/questions"
	"github.com/abhisek/adaptest/internal/screens/results"
	"github.com/abhisek/adaptest/internal/screens/testrun"
	"github.com/abhisek/adaptest/internal/store"
	"github.com/abhisek/adaptest/internal/ui/layout"
)

// SessionExpiredNotice is shown on the login screen after a 401/403.
const SessionExpiredNotice = "Session expired, please log in again"

// Backend is everything the screens need from the API client.
type Backend interface {
	testrun.Backend
	home.Backend
	history.Backend
	questions.Backend
	results.Backend
}

// Session is the logged-in user, as kept by auth.Service.
type Session interface {
	login.Authenticator
	Logout(ctx context.Context) error
	Current() *auth.User
}

// Options holds the dependencies the app needs.
type Options struct {
	Config  config.Config
	Backend Backend
	Session Session

	// Events receives journal and client diagnostics. May be nil.
	Events store.EventRepo

	// ExportDir is where the results screen writes CSV exports.
	ExportDir string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
}

// New creates the app. It opens on the landing screen of the restored
// user, or on login when nobody is logged in.
func New(opts Options) AppModel {
	m := AppModel{opts: opts}
	var initial screen.Screen
	if u := opts.Session.Current(); u != nil {
		initial = m.landing(u)
	} else {
		initial = m.login("")
	}
	m.router = router.New(initial)
	return m
}

func (m AppModel) login(notice string) screen.Screen {
	return login.New(m.opts.Session, m.landing, notice)
}

// landing picks the first screen for a role.
func (m AppModel) landing(u *auth.User) screen.Screen {
	b := m.opts.Backend
	if u.IsAdmin {
		return admin.New(b, admin.Navigation{
			Questions: func() screen.Screen { return questions.New(b) },
			Results:   func() screen.Screen { return results.New(b, m.opts.ExportDir) },
		}, u.Email)
	}
	return home.New(b, home.Navigation{
		StartTest:  func() screen.Screen { return m.testRun("") },
		ResumeTest: func(id string) screen.Screen { return m.testRun(id) },
		History: func() screen.Screen {
			return history.New(b, func(id string) screen.Screen { return m.testRun(id) })
		},
	}, u.Email)
}

func (m AppModel) testRun(testID string) screen.Screen {
	return testrun.New(m.opts.Backend, m.opts.Events, testrun.Options{
		TestID:         testID,
		QuestionTime:   m.opts.Config.QuestionTime,
		QuestionBudget: m.opts.Config.QuestionBudget,
	})
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case screen.LogoutMsg:
		return m, m.logout("")

	case screen.SessionExpiredMsg:
		return m, m.logout(SessionExpiredNotice)
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// logout forgets the user and returns to the login screen.
func (m AppModel) logout(notice string) tea.Cmd {
	if err := m.opts.Session.Logout(context.Background()); err != nil && m.opts.Events != nil {
		_ = m.opts.Events.AppendClientEvent(context.Background(), store.ClientEventData{
			Kind:    store.KindInternal,
			Screen:  "app",
			Message: err.Error(),
		})
	}
	return m.router.Reset(m.login(notice))
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	email, isAdmin := "", false
	if u := m.opts.Session.Current(); u != nil {
		email, isAdmin = u.Email, u.IsAdmin
	}
	header := layout.RenderHeader(title, email, isAdmin, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
