package testrun

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/adaptest/internal/api"
	sess "github.com/abhisek/adaptest/internal/session"
	"github.com/abhisek/adaptest/internal/stats"
	"github.com/abhisek/adaptest/internal/ui/components"
	"github.com/abhisek/adaptest/internal/ui/theme"
)

func (s *TestRunScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	if s.startErr != nil {
		return renderMessage(width, height, theme.ErrorText,
			fmt.Sprintf("Could not start the test: %s", api.Message(s.startErr)))
	}

	switch st := s.runner.State().(type) {
	case sess.Idle:
		return renderMessage(width, height, theme.Hint, "Starting your test...")
	case sess.AwaitingQuestion:
		if st.Stalled {
			return renderMessage(width, height, theme.ErrorText,
				fmt.Sprintf("%s\n\nPress Enter to continue.", s.notice))
		}
		return renderMessage(width, height, theme.Hint, "Loading question...")
	case sess.Answering:
		return s.renderQuestion(st.Question, width, height, false)
	case sess.Submitting:
		return s.renderQuestion(st.Question, width, height, true)
	}
	return renderMessage(width, height, theme.Hint, "Finishing...")
}

// renderQuestion renders the live question with its timer and options.
func (s *TestRunScreen) renderQuestion(q *api.Question, width, height int, submitting bool) string {
	cw := components.ContentWidth(width)

	var b strings.Builder

	// Status line: progress on the left, timer on the right.
	number := s.runner.Answered()
	if !submitting {
		number++
	}
	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
		Render(fmt.Sprintf("Question %d of %d", number, s.runner.Budget()))
	timerColor := theme.Text
	if s.countdown.Remaining() <= 10 {
		timerColor = theme.Error
	}
	right := lipgloss.NewStyle().Foreground(timerColor).Bold(true).
		Render("⏱ " + s.countdown.View())
	gap := max(cw-lipgloss.Width(left)-lipgloss.Width(right), 1)
	b.WriteString(left + strings.Repeat(" ", gap) + right)
	b.WriteString("\n")

	progress := components.NewProgressBar("", float64(s.runner.Answered())/float64(max(s.runner.Budget(), 1)), false, cw)
	b.WriteString(progress.View())
	b.WriteString("\n")

	timer := components.NewProgressBar("", s.countdown.Fraction(), false, cw)
	timer.Color = theme.Primary
	if s.countdown.Remaining() <= 10 {
		timer.Color = theme.Error
	}
	b.WriteString(timer.View())
	b.WriteString("\n\n")

	meta := lipgloss.NewStyle().Foreground(theme.DifficultyColor(q.Difficulty)).
		Render(fmt.Sprintf("%s · level %d", stats.DifficultyBand(q.Difficulty), q.Difficulty))
	meta += theme.Label.Render(fmt.Sprintf("   weight %s   score %s",
		stats.FormatScore(q.Weight), stats.FormatScore(s.runner.Score())))
	b.WriteString(meta)
	b.WriteString("\n\n")

	body := theme.Body.Bold(true).Width(cw - 6).Render(q.Text)
	body += "\n\n" + s.options.View(cw-6)
	b.WriteString(components.Card(body, cw))
	b.WriteString("\n")

	switch {
	case submitting:
		b.WriteString(theme.Hint.Render("Saving answer..."))
	case s.notice != "":
		b.WriteString(theme.ErrorText.Render(s.notice))
	}

	return components.Center(b.String(), width, height)
}

// renderQuitConfirm renders the leave confirmation dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render("Leave this test?"))
	b.WriteString("\n")
	b.WriteString(theme.Label.Render("Answers already saved stay in your history."))
	b.WriteString("\n\n")
	b.WriteString(components.ButtonRow([]string{"[Y] Leave", "[N] Keep going"}, 1))
	return components.Center(b.String(), width, height)
}

func renderMessage(width, height int, style lipgloss.Style, msg string) string {
	return components.Center(style.Render(msg), width, height)
}
