package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/screen"
	"github.com/abhisek/adaptest/internal/session"
	"github.com/abhisek/adaptest/internal/stats"
	"github.com/abhisek/adaptest/internal/ui/components"
	"github.com/abhisek/adaptest/internal/ui/layout"
	"github.com/abhisek/adaptest/internal/ui/theme"
)

// SummaryScreen displays the result of a finished test.
type SummaryScreen struct {
	summary *session.Summary
	offset  int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Test Complete"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Dashboard"},
	}
	if s.summary != nil && len(s.summary.Answers) > 0 {
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Scroll answers"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.summary != nil && s.offset < len(s.summary.Answers)-1 {
			s.offset++
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Test complete!"))
	b.WriteString("\n\n")

	if !sum.HasSnapshot {
		b.WriteString(theme.Subtitle.Width(cw).Render(
			fmt.Sprintf("You answered %d questions. Your score will appear in your history.", sum.Submitted)))
		return components.Center(b.String(), width, height)
	}

	score := lipgloss.NewStyle().Foreground(theme.ScoreColor(sum.Score)).Bold(true).
		Render(stats.FormatScore(sum.Score))
	tileWidth := (cw - 4) / 3
	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		components.Stat("Score", score, tileWidth),
		" ",
		components.Stat("Questions", fmt.Sprintf("%d", sum.QuestionsAttempted), tileWidth),
		" ",
		components.Stat("Correct", fmt.Sprintf("%d", sum.Correct), tileWidth),
	)
	b.WriteString(tiles)
	b.WriteString("\n\n")

	level := lipgloss.NewStyle().Foreground(theme.DifficultyColor(sum.FinalDifficulty)).
		Render(fmt.Sprintf("%s (level %d)", stats.DifficultyBand(sum.FinalDifficulty), sum.FinalDifficulty))
	b.WriteString(theme.Label.Render("Final difficulty: ") + level)
	b.WriteString("   ")
	b.WriteString(theme.Label.Render(fmt.Sprintf("Current streak: %d", sum.CorrectStreak)))
	b.WriteString("\n\n")

	if len(sum.Answers) > 0 {
		rows := max(height-lipgloss.Height(b.String())-4, 3)
		b.WriteString(renderAnswers(sum.Answers, s.offset, rows))
	}

	return components.Center(b.String(), width, height)
}

func renderAnswers(answers []api.TestAnswer, offset, rows int) string {
	var b strings.Builder
	b.WriteString(theme.TableHeader.Render(fmt.Sprintf("%-4s %-14s %-8s %s", "#", "Difficulty", "Answer", "Result")))
	b.WriteString("\n")

	end := min(offset+rows, len(answers))
	for i := offset; i < end; i++ {
		a := answers[i]
		answer := "timeout"
		if a.Selected != api.Unanswered {
			answer = components.Label(a.Selected)
		}
		result := theme.Incorrect.Render("✗")
		if a.Correct {
			result = theme.Correct.Render("✓")
		}
		line := fmt.Sprintf("%-4d %-14s %-8s ", i+1,
			fmt.Sprintf("%s (%d)", stats.DifficultyBand(a.Difficulty), a.Difficulty), answer)
		b.WriteString(theme.Body.Render(line) + result)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
