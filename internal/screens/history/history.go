package history

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

type historyLoadedMsg struct {
	Tests []api.Test
	Err   error
}

// Backend loads the learner's test history.
type Backend interface {
	History(ctx context.Context) ([]api.Test, error)
}

// HistoryScreen lists past tests. Completed tests expand to show their
// answers; unfinished ones can be resumed.
type HistoryScreen struct {
	backend  Backend
	resume   func(testID string) screen.Screen
	tests    []api.Test
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.Resumer = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(backend Backend, resume func(testID string) screen.Screen) *HistoryScreen {
	return &HistoryScreen{
		backend:  backend,
		resume:   resume,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		tests, err := backend.History(context.Background())
		return historyLoadedMsg{Tests: tests, Err: err}
	}
}

// Resume reloads after a resumed test returns here.
func (s *HistoryScreen) Resume() tea.Cmd {
	return s.Init()
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	action := "Details"
	if s.current() != nil && !s.current().TestOver {
		action = "Continue"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: action},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) current() *api.Test {
	if s.selected < 0 || s.selected >= len(s.tests) {
		return nil
	}
	return &s.tests[s.selected]
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err)
			return s, screen.Expired(msg.Err)
		}
		s.errMsg = ""
		s.tests = msg.Tests
		s.selected = min(s.selected, max(len(s.tests)-1, 0))
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.tests)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			t := s.current()
			if t == nil {
				return s, nil
			}
			if !t.TestOver && s.resume != nil {
				next := s.resume(t.ID)
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.Center(theme.ErrorText.Render("Error: "+s.errMsg), width, height)
	}
	if !s.loaded {
		return components.Center(theme.Hint.Render("Loading history..."), width, height)
	}
	if len(s.tests) == 0 {
		return components.Center(theme.Hint.Render("No tests yet. Start one from the dashboard!"), width, height)
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(theme.TableHeader.Render(fmt.Sprintf("  %-14s %-12s %-7s %-10s %s",
		"Date", "Status", "Score", "Questions", "Difficulty")))
	b.WriteString("\n")

	for i, t := range s.tests {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%-14s %-12s %-7s %-10d %s",
			prefix, stats.FormatDate(t.CreatedAt), stats.Status(t.TestOver),
			stats.FormatScore(t.Score), t.QuestionsAttempted, stats.DifficultyBand(t.CurrentDifficulty))

		style := lipgloss.NewStyle().Foreground(theme.Text).Width(cw)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderAnswers(t))
		}
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func renderAnswers(t api.Test) string {
	if len(t.Answers) == 0 {
		return theme.Hint.Render("    No answers recorded") + "\n"
	}
	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("    %d of %d correct, streak %d",
		t.CorrectCount(), len(t.Answers), t.CorrectStreak)))
	b.WriteString("\n")
	for i, a := range t.Answers {
		mark := theme.Incorrect.Render("✗")
		if a.Correct {
			mark = theme.Correct.Render("✓")
		}
		answer := "timeout"
		if a.Selected != api.Unanswered {
			answer = components.Label(a.Selected)
		}
		b.WriteString(fmt.Sprintf("    %s %2d. level %-2d %s\n", mark, i+1, a.Difficulty, answer))
	}
	return b.String()
}
