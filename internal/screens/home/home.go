// Package home is the learner dashboard: history statistics, the
// performance trend and the entry point to a new test.
package home

import (
	"context"
	"fmt"
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

// Backend loads the learner's test history.
type Backend interface {
	History(ctx context.Context) ([]api.Test, error)
}

// Navigation builds the screens the dashboard opens.
type Navigation struct {
	StartTest  func() screen.Screen
	ResumeTest func(testID string) screen.Screen
	History    func() screen.Screen
}

// recentCount is how many tests the dashboard lists.
const recentCount = 5

// HomeScreen is the learner's landing screen.
type HomeScreen struct {
	backend Backend
	nav     Navigation
	email   string

	tests   []api.Test
	stats   stats.HistoryStats
	trend   stats.Trend
	menu    components.Menu
	loaded  bool
	loadErr error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen for the given learner.
func New(backend Backend, nav Navigation, email string) *HomeScreen {
	h := &HomeScreen{backend: backend, nav: nav, email: email, trend: stats.TrendNeutral}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads the history when the learner comes back from a test.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Title() string {
	return "Dashboard"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "R", Description: "Refresh"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		h.loaded = true
		h.loadErr = msg.Err
		if msg.Err != nil {
			return h, screen.Expired(msg.Err)
		}
		h.tests = msg.Tests
		h.stats = stats.FromHistory(msg.Tests)
		h.trend = stats.PerformanceTrend(msg.Tests)
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.menuItems())
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		return h, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			return h, h.load()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) load() tea.Cmd {
	backend := h.backend
	return func() tea.Msg {
		tests, err := backend.History(context.Background())
		return historyLoadedMsg{Tests: tests, Err: err}
	}
}

// inProgress returns the newest unfinished test, if any.
func (h *HomeScreen) inProgress() *api.Test {
	for i := range h.tests {
		if !h.tests[i].TestOver {
			return &h.tests[i]
		}
	}
	return nil
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	push := func(s screen.Screen) tea.Cmd {
		return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
	}
	open := h.inProgress()

	return []components.MenuItem{
		{Label: "Start New Test", Description: "A fresh adaptive test", Action: func() tea.Cmd {
			return push(h.nav.StartTest())
		}},
		{Label: "Continue Test", Description: "Pick up your unfinished test", Disabled: open == nil, Action: func() tea.Cmd {
			if t := h.inProgress(); t != nil {
				return push(h.nav.ResumeTest(t.ID))
			}
			return nil
		}},
		{Label: "Test History", Description: "Every test you have taken", Action: func() tea.Cmd {
			return push(h.nav.History())
		}},
		{Label: "Log Out", Action: func() tea.Cmd {
			return func() tea.Msg { return screen.LogoutMsg{} }
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render("Welcome back"))
	if h.email != "" {
		sections = append(sections, theme.Subtitle.Width(cw).Render(h.email))
	}

	switch {
	case !h.loaded:
		sections = append(sections, theme.Hint.Render("Loading your history..."))
	case h.loadErr != nil:
		sections = append(sections, theme.ErrorText.Render("Could not load history: "+api.Message(h.loadErr)))
	default:
		sections = append(sections, h.renderStats(cw))
		if recent := h.renderRecent(cw); recent != "" {
			sections = append(sections, recent)
		}
	}

	sections = append(sections, h.menu.View())
	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) renderStats(cw int) string {
	st := h.stats
	tileWidth := (cw - 6) / 4
	average := lipgloss.NewStyle().Foreground(theme.ScoreColor(float64(st.AverageScore))).Bold(true).
		Render(fmt.Sprintf("%d", st.AverageScore))

	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		components.Stat("Average", average, tileWidth), " ",
		components.Stat("Best", stats.FormatScore(st.BestScore), tileWidth), " ",
		components.Stat("Questions", fmt.Sprintf("%d", st.TotalQuestions), tileWidth), " ",
		components.Stat("Accuracy", fmt.Sprintf("%d%%", st.Accuracy), tileWidth),
	)
	progress := lipgloss.JoinHorizontal(lipgloss.Top,
		components.Stat("Difficulty", fmt.Sprintf("%d/10", st.AverageDifficulty), tileWidth), " ",
		components.Stat("Completion", fmt.Sprintf("%d%%", st.CompletionRate), tileWidth),
	)

	trendColor := theme.TextDim
	switch h.trend {
	case stats.TrendUp:
		trendColor = theme.Success
	case stats.TrendDown:
		trendColor = theme.Error
	}
	line := theme.Label.Render(fmt.Sprintf("Streak record %d   Completed %d   In progress %d   Trend ",
		st.StreakRecord, st.Completed, st.InProgress)) +
		lipgloss.NewStyle().Foreground(trendColor).Bold(true).Render(h.trend.Arrow())

	return tiles + "\n" + progress + "\n" + line
}

func (h *HomeScreen) renderRecent(cw int) string {
	if len(h.tests) == 0 {
		return theme.Hint.Render("No tests yet. Start one below!")
	}
	var b strings.Builder
	b.WriteString(theme.TableHeader.Render("Recent tests"))
	for _, t := range h.tests[:min(recentCount, len(h.tests))] {
		status := lipgloss.NewStyle().Foreground(theme.StatusColor(t.TestOver)).Render(stats.Status(t.TestOver))
		line := fmt.Sprintf("%-14s score %-6s %2d questions  ",
			stats.FormatDate(t.CreatedAt), stats.FormatScore(t.Score), t.QuestionsAttempted)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(cw).Render(theme.Body.Render(line) + status))
	}
	return b.String()
}
