// Package questions is the admin question bank: list, search, filter,
// create, edit and delete.
package questions

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

// Backend is the part of the API client the question bank needs.
type Backend interface {
	Questions(ctx context.Context) ([]api.BankQuestion, error)
	CreateQuestion(ctx context.Context, q api.BankQuestion) error
	UpdateQuestion(ctx context.Context, q api.BankQuestion) error
	DeleteQuestion(ctx context.Context, id string) error
}

// ListScreen lists the question bank.
type ListScreen struct {
	backend Backend

	all        []api.BankQuestion
	visible    []api.BankQuestion
	selected   int
	difficulty int
	search     components.TextInput
	searching  bool
	preview    bool

	confirmDelete bool
	loaded        bool
	errMsg        string
	notice        string
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)
var _ screen.Resumer = (*ListScreen)(nil)
var _ screen.EscapeHandler = (*ListScreen)(nil)

// New creates the question bank screen.
func New(backend Backend) *ListScreen {
	return &ListScreen{
		backend: backend,
		search:  components.NewTextInput("", "Search text or category", 100),
	}
}

func (s *ListScreen) Init() tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		qs, err := backend.Questions(context.Background())
		return questionsLoadedMsg{Questions: qs, Err: err}
	}
}

// Resume reloads after the form saves.
func (s *ListScreen) Resume() tea.Cmd {
	return s.Init()
}

func (s *ListScreen) Title() string {
	return "Question Bank"
}

// HandlesEscape lets Esc close the search box or the delete prompt
// before leaving the screen.
func (s *ListScreen) HandlesEscape() bool {
	return true
}

func (s *ListScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmDelete:
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	case s.searching:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "N", Description: "New"},
		{Key: "E", Description: "Edit"},
		{Key: "D", Description: "Delete"},
		{Key: "/", Description: "Search"},
		{Key: "F", Description: "Difficulty"},
		{Key: "P", Description: "Preview"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ListScreen) current() *api.BankQuestion {
	if s.selected < 0 || s.selected >= len(s.visible) {
		return nil
	}
	return &s.visible[s.selected]
}

func (s *ListScreen) refilter() {
	s.visible = Filter(s.all, s.search.Value(), s.difficulty)
	s.selected = min(s.selected, max(len(s.visible)-1, 0))
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err)
			return s, screen.Expired(msg.Err)
		}
		s.errMsg = ""
		s.all = msg.Questions
		s.refilter()
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err)
			return s, screen.Expired(msg.Err)
		}
		s.notice = "Question deleted"
		return s, s.Init()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.searching {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ListScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmDelete {
		switch key {
		case "y", "Y":
			s.confirmDelete = false
			q := s.current()
			if q == nil {
				return s, nil
			}
			backend, id := s.backend, q.ID
			return s, func() tea.Msg {
				return deletedMsg{ID: id, Err: backend.DeleteQuestion(context.Background(), id)}
			}
		case "n", "N", "esc":
			s.confirmDelete = false
		}
		return s, nil
	}

	if s.searching {
		switch key {
		case "enter":
			s.searching = false
			s.search.Blur()
			return s, nil
		case "esc":
			s.searching = false
			s.search.Blur()
			s.search.SetValue("")
			s.refilter()
			return s, nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.refilter()
		return s, cmd
	}

	s.notice = ""
	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.visible)-1 {
			s.selected++
		}
	case "/":
		s.searching = true
		return s, s.search.Focus()
	case "f":
		s.difficulty = nextDifficulty(s.difficulty)
		s.refilter()
	case "p":
		s.preview = !s.preview
	case "n":
		form := NewForm(s.backend, nil)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: form} }
	case "e", "enter":
		if q := s.current(); q != nil {
			form := NewForm(s.backend, q)
			return s, func() tea.Msg { return router.PushScreenMsg{Screen: form} }
		}
	case "d":
		if s.current() != nil {
			s.confirmDelete = true
		}
	}
	return s, nil
}

func (s *ListScreen) View(width, height int) string {
	if !s.loaded {
		return components.Center(theme.Hint.Render("Loading questions..."), width, height)
	}
	cw := components.ContentWidth(width)

	if s.confirmDelete {
		if q := s.current(); q != nil {
			body := theme.Body.Bold(true).Render("Delete this question?") + "\n\n" +
				theme.Label.Width(cw-6).Render(q.Text) + "\n\n" +
				components.ButtonRow([]string{"[Y] Delete", "[N] Cancel"}, 1)
			return components.Center(components.Card(body, cw), width, height)
		}
	}

	var b strings.Builder

	filter := "all"
	if s.difficulty != AllDifficulties {
		filter = fmt.Sprintf("%d (%s)", s.difficulty, stats.DifficultyBand(s.difficulty))
	}
	b.WriteString(theme.Label.Render(fmt.Sprintf("%d of %d questions · difficulty %s", len(s.visible), len(s.all), filter)))
	b.WriteString("\n")
	if s.searching || s.search.Value() != "" {
		b.WriteString(s.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(s.visible) == 0 {
		b.WriteString(theme.Hint.Render("No questions match."))
	}

	rows := max(height-8, 3)
	if s.preview {
		rows = max(rows-8, 3)
	}
	start := max(0, s.selected-rows+1)
	end := min(start+rows, len(s.visible))
	for i := start; i < end; i++ {
		q := s.visible[i]
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		text := q.Text
		if limit := cw - 24; len([]rune(text)) > limit && limit > 3 {
			text = string([]rune(text)[:limit-1]) + "…"
		}
		level := lipgloss.NewStyle().Foreground(theme.DifficultyColor(q.Difficulty)).Render(fmt.Sprintf("L%-2d", q.Difficulty))
		category := theme.Label.Render(fmt.Sprintf(" %-12s ", truncate(q.Category, 12)))
		style := theme.Unselected
		if i == s.selected {
			style = theme.Selected
		}
		b.WriteString(prefix + level + category + style.Render(text))
		b.WriteString("\n")
	}

	if s.preview {
		if q := s.current(); q != nil {
			opts := components.NewOptionList(q.Options)
			opts.Correct = q.CorrectIndex
			opts.Disabled = true
			body := theme.Body.Bold(true).Width(cw - 6).Render(q.Text) + "\n\n" + opts.View(cw-6) +
				"\n\n" + theme.Label.Render("weight "+stats.FormatScore(q.Weight))
			b.WriteString("\n" + components.Card(body, cw))
		}
	}

	switch {
	case s.errMsg != "":
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
	case s.notice != "":
		b.WriteString("\n" + theme.SuccessText.Render(s.notice))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
