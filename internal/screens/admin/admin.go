// Package admin is the administrator's landing screen.
package admin

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/screen"
	"github.com/abhisek/adaptest/internal/stats"
	"github.com/abhisek/adaptest/internal/ui/components"
	"github.com/abhisek/adaptest/internal/ui/layout"
	"github.com/abhisek/adaptest/internal/ui/theme"
)

// Backend loads all results for the overview.
type Backend interface {
	AllResults(ctx context.Context) ([]api.TestResult, error)
}

// Navigation builds the admin tools.
type Navigation struct {
	Questions func() screen.Screen
	Results   func() screen.Screen
}

// Overview is the platform-wide summary shown above the menu.
type Overview struct {
	Tests        int
	Users        int
	Completed    int
	AverageScore int // rounded mean of completed tests
}

// NewOverview summarizes results.
func NewOverview(results []api.TestResult) Overview {
	o := Overview{Tests: len(results), Users: len(stats.Summaries(results))}
	var total float64
	for _, r := range results {
		if r.TestOver {
			o.Completed++
			total += r.Score
		}
	}
	if o.Completed > 0 {
		o.AverageScore = int(math.Round(total / float64(o.Completed)))
	}
	return o
}

// AdminScreen is the admin landing screen.
type AdminScreen struct {
	backend Backend
	nav     Navigation
	email   string

	menu     components.Menu
	overview Overview
	loaded   bool
	loadErr  error
}

var _ screen.Screen = (*AdminScreen)(nil)
var _ screen.KeyHintProvider = (*AdminScreen)(nil)
var _ screen.Resumer = (*AdminScreen)(nil)

// New creates the admin screen.
func New(backend Backend, nav Navigation, email string) *AdminScreen {
	a := &AdminScreen{backend: backend, nav: nav, email: email}
	push := func(s screen.Screen) tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
	a.menu = components.NewMenu([]components.MenuItem{
		{Label: "Question Bank", Description: "Create, edit and delete questions", Action: func() tea.Cmd {
			return push(a.nav.Questions())
		}},
		{Label: "Test Results", Description: "Every learner's attempts", Action: func() tea.Cmd {
			return push(a.nav.Results())
		}},
		{Label: "Log Out", Action: func() tea.Cmd {
			return func() tea.Msg { return screen.LogoutMsg{} }
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	return a
}

func (a *AdminScreen) Init() tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		rs, err := backend.AllResults(context.Background())
		return overviewLoadedMsg{Results: rs, Err: err}
	}
}

// Resume refreshes the overview.
func (a *AdminScreen) Resume() tea.Cmd {
	return a.Init()
}

func (a *AdminScreen) Title() string {
	return "Admin"
}

func (a *AdminScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (a *AdminScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(overviewLoadedMsg); ok {
		a.loaded = true
		a.loadErr = msg.Err
		if msg.Err != nil {
			return a, screen.Expired(msg.Err)
		}
		a.overview = NewOverview(msg.Results)
		return a, nil
	}

	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *AdminScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{theme.Title.Width(cw).Render("Administration")}
	if a.email != "" {
		sections = append(sections, theme.Subtitle.Width(cw).Render(a.email))
	}

	switch {
	case !a.loaded:
		sections = append(sections, theme.Hint.Render("Loading overview..."))
	case a.loadErr != nil:
		sections = append(sections, theme.ErrorText.Render("Could not load results: "+api.Message(a.loadErr)))
	default:
		o := a.overview
		tile := (cw - 6) / 4
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			components.Stat("Tests", fmt.Sprintf("%d", o.Tests), tile), " ",
			components.Stat("Learners", fmt.Sprintf("%d", o.Users), tile), " ",
			components.Stat("Completed", fmt.Sprintf("%d", o.Completed), tile), " ",
			components.Stat("Average", fmt.Sprintf("%d", o.AverageScore), tile),
		))
	}

	sections = append(sections, a.menu.View())
	return components.Center(strings.Join(sections, "\n\n"), width, height)
}
