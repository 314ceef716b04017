// Package results is the admin view of every learner's attempts, with
// sorting, filtering, per-user summaries and CSV export.
package results

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

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

// Backend loads all results. Admin only.
type Backend interface {
	AllResults(ctx context.Context) ([]api.TestResult, error)
}

type view int

const (
	viewResults view = iota
	viewUsers
)

// ResultsScreen lists results.
type ResultsScreen struct {
	backend   Backend
	exportDir string
	now       func() time.Time

	all     []api.TestResult
	visible []api.TestResult
	users   []stats.UserSummary
	query   stats.Query

	view      view
	selected  int
	search    components.TextInput
	searching bool
	loaded    bool
	errMsg    string
	notice    string
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)
var _ screen.EscapeHandler = (*ResultsScreen)(nil)

// New creates the results screen. Exports are written to exportDir.
func New(backend Backend, exportDir string) *ResultsScreen {
	return &ResultsScreen{
		backend:   backend,
		exportDir: exportDir,
		now:       time.Now,
		query:     stats.DefaultQuery(),
		search:    components.NewTextInput("", "Search email or test name", 100),
	}
}

func (s *ResultsScreen) Init() tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		rs, err := backend.AllResults(context.Background())
		return resultsLoadedMsg{Results: rs, Err: err}
	}
}

func (s *ResultsScreen) Title() string {
	return "Test Results"
}

func (s *ResultsScreen) HandlesEscape() bool {
	return true
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	if s.searching {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "S", Description: "Sort"},
		{Key: "O", Description: "Order"},
		{Key: "F", Description: "Status"},
		{Key: "U", Description: "User"},
		{Key: "/", Description: "Search"},
		{Key: "Tab", Description: "Users"},
		{Key: "X", Description: "Export"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultsScreen) apply() {
	s.query.Search = s.search.Value()
	s.visible = s.query.Apply(s.all)
	s.users = stats.Summaries(s.visible)
	s.selected = min(s.selected, max(s.rows()-1, 0))
}

func (s *ResultsScreen) rows() int {
	if s.view == viewUsers {
		return len(s.users)
	}
	return len(s.visible)
}

// nextUser cycles the user filter through every email in the results,
// then back to all users.
func (s *ResultsScreen) nextUser() {
	emails := make([]string, 0)
	for _, u := range stats.Summaries(s.all) {
		emails = append(emails, u.Email)
	}
	if len(emails) == 0 {
		s.query.User = ""
		return
	}
	if s.query.User == "" {
		s.query.User = emails[0]
		return
	}
	for i, e := range emails {
		if e == s.query.User {
			if i+1 < len(emails) {
				s.query.User = emails[i+1]
			} else {
				s.query.User = ""
			}
			return
		}
	}
	s.query.User = ""
}

func (s *ResultsScreen) export() tea.Cmd {
	results := s.visible
	path := filepath.Join(s.exportDir, stats.ExportFileName(s.now(), stats.FormatCSV))
	return func() tea.Msg {
		return exportedMsg{Path: path, Err: writeExport(path, results)}
	}
}

func writeExport(path string, results []api.TestResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := stats.Export(f, stats.FormatCSV, results); err != nil {
		f.Close()
		return fmt.Errorf("write export: %w", err)
	}
	return f.Close()
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resultsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err)
			return s, screen.Expired(msg.Err)
		}
		s.errMsg = ""
		s.all = msg.Results
		s.apply()
		return s, nil

	case exportedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.notice = "Exported to " + msg.Path
		return s, nil

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

func (s *ResultsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

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
			s.apply()
			return s, nil
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.apply()
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
		if s.selected < s.rows()-1 {
			s.selected++
		}
	case "s":
		s.query.Sort = s.query.Sort.Next()
		s.apply()
	case "o":
		s.query.Order = s.query.Order.Toggle()
		s.apply()
	case "f":
		s.query.Status = s.query.Status.Next()
		s.apply()
	case "u":
		s.nextUser()
		s.apply()
	case "tab":
		if s.view == viewResults {
			s.view = viewUsers
		} else {
			s.view = viewResults
		}
		s.selected = 0
	case "/":
		s.searching = true
		return s, s.search.Focus()
	case "r":
		return s, s.Init()
	case "x":
		if len(s.visible) == 0 {
			s.errMsg = "Nothing to export"
			return s, nil
		}
		return s, s.export()
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	if !s.loaded {
		return components.Center(theme.Hint.Render("Loading results..."), width, height)
	}
	cw := min(max(width-4, 40), 110)

	var b strings.Builder
	user := s.query.User
	if user == "" {
		user = "all users"
	}
	b.WriteString(theme.Label.Render(fmt.Sprintf("%d of %d results · %s · status %s · sort %s %s",
		len(s.visible), len(s.all), user, s.query.Status, s.query.Sort, s.query.Order)))
	b.WriteString("\n")
	if s.searching || s.search.Value() != "" {
		b.WriteString(s.search.View() + "\n")
	}
	b.WriteString("\n")

	rows := max(height-8, 3)
	if s.view == viewUsers {
		b.WriteString(s.usersTable(rows))
	} else {
		b.WriteString(s.resultsTable(rows))
	}

	switch {
	case s.errMsg != "":
		b.WriteString("\n" + theme.ErrorText.Render(s.errMsg))
	case s.notice != "":
		b.WriteString("\n" + theme.SuccessText.Render(s.notice))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func window(selected, total, rows int) (int, int) {
	start := max(0, selected-rows+1)
	return start, min(start+rows, total)
}

func (s *ResultsScreen) resultsTable(rows int) string {
	if len(s.visible) == 0 {
		return theme.Hint.Render("No results match.")
	}
	var b strings.Builder
	b.WriteString(theme.TableHeader.Render(fmt.Sprintf("  %-28s %6s  %-12s %5s  %-14s %s",
		"User", "Score", "Status", "Qs", "Difficulty", "Date")))
	b.WriteString("\n")

	start, end := window(s.selected, len(s.visible), rows)
	for i := start; i < end; i++ {
		r := s.visible[i]
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		email := theme.Unselected.Render(fmt.Sprintf("%-28s", truncate(r.Email(), 28)))
		if i == s.selected {
			email = theme.Selected.Render(fmt.Sprintf("%-28s", truncate(r.Email(), 28)))
		}
		score := lipgloss.NewStyle().Foreground(theme.ScoreColor(r.Score)).Render(fmt.Sprintf("%6s", stats.FormatScore(r.Score)))
		status := lipgloss.NewStyle().Foreground(theme.StatusColor(r.TestOver)).Render(fmt.Sprintf("%-12s", stats.Status(r.TestOver)))
		difficulty := lipgloss.NewStyle().Foreground(theme.DifficultyColor(r.CurrentDifficulty)).
			Render(fmt.Sprintf("%-14s", fmt.Sprintf("%d %s", r.CurrentDifficulty, stats.DifficultyBand(r.CurrentDifficulty))))
		b.WriteString(fmt.Sprintf("%s%s %s  %s %5d  %s %s\n",
			prefix, email, score, status, r.QuestionsAttempted, difficulty, theme.Label.Render(stats.FormatDate(r.CreatedAt))))
	}
	return b.String()
}

func (s *ResultsScreen) usersTable(rows int) string {
	if len(s.users) == 0 {
		return theme.Hint.Render("No users match.")
	}
	var b strings.Builder
	b.WriteString(theme.TableHeader.Render(fmt.Sprintf("  %-28s %5s %9s %7s %5s %6s  %s",
		"User", "Tests", "Completed", "Average", "Best", "Qs", "Last active")))
	b.WriteString("\n")

	start, end := window(s.selected, len(s.users), rows)
	for i := start; i < end; i++ {
		u := s.users[i]
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(prefix + style.Render(fmt.Sprintf("%-28s", truncate(u.Email, 28))))
		b.WriteString(fmt.Sprintf(" %5d %9d %7d %5s %6d  %s\n",
			u.TotalTests, u.CompletedTests, u.AverageScore, stats.FormatScore(u.BestScore),
			u.QuestionsAttempted, theme.Label.Render(stats.FormatDate(u.LastActivity))))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
