package results

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/screen"
	"github.com/abhisek/adaptest/internal/stats"
)

type mockBackend struct {
	results []api.TestResult
	err     error
}

func (m *mockBackend) AllResults(context.Context) ([]api.TestResult, error) {
	return m.results, m.err
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC)
}

func sample() []api.TestResult {
	ada := &api.ResultUser{ID: "u1", Email: "ada@example.com"}
	bob := &api.ResultUser{ID: "u2", Email: "bob@example.com"}
	return []api.TestResult{
		{ID: "r1", User: ada, Score: 6, TestOver: true, QuestionsAttempted: 10, CurrentDifficulty: 5, CreatedAt: day(1), UpdatedAt: day(1)},
		{ID: "r2", User: bob, Score: 9, TestOver: true, QuestionsAttempted: 12, CurrentDifficulty: 8, CreatedAt: day(3), UpdatedAt: day(3)},
		{ID: "r3", User: ada, Score: 2, QuestionsAttempted: 3, CurrentDifficulty: 2, CreatedAt: day(4), UpdatedAt: day(5)},
	}
}

func key(k string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(k[0]), Text: k}
}

func loaded(t *testing.T) *ResultsScreen {
	t.Helper()
	s := New(&mockBackend{results: sample()}, t.TempDir())
	s.now = func() time.Time { return day(7) }
	s.Update(s.Init()())
	return s
}

func ids(rs []api.TestResult) string {
	var out []string
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return strings.Join(out, ",")
}

func TestResultsScreen_DefaultNewestFirst(t *testing.T) {
	s := loaded(t)
	if got := ids(s.visible); got != "r3,r2,r1" {
		t.Errorf("visible = %s", got)
	}
	view := s.View(120, 40)
	for _, want := range []string{"3 of 3 results", "ada@example.com", "In Progress", "Hard"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResultsScreen_SortAndOrder(t *testing.T) {
	s := loaded(t)
	s.Update(key("s"))
	if s.query.Sort != stats.SortScore || ids(s.visible) != "r2,r1,r3" {
		t.Errorf("sort by score = %s", ids(s.visible))
	}
	s.Update(key("o"))
	if ids(s.visible) != "r3,r1,r2" {
		t.Errorf("ascending score = %s", ids(s.visible))
	}
}

func TestResultsScreen_StatusFilter(t *testing.T) {
	s := loaded(t)
	s.Update(key("f"))
	if ids(s.visible) != "r2,r1" {
		t.Errorf("completed = %s", ids(s.visible))
	}
	s.Update(key("f"))
	if ids(s.visible) != "r3" {
		t.Errorf("in progress = %s", ids(s.visible))
	}
	s.Update(key("f"))
	if len(s.visible) != 3 {
		t.Error("third press should show all again")
	}
}

func TestResultsScreen_UserCycle(t *testing.T) {
	s := loaded(t)
	// Summaries order users by last activity: ada, then bob.
	s.Update(key("u"))
	if s.query.User != "ada@example.com" || ids(s.visible) != "r3,r1" {
		t.Errorf("user = %q, visible = %s", s.query.User, ids(s.visible))
	}
	s.Update(key("u"))
	if s.query.User != "bob@example.com" {
		t.Errorf("user = %q", s.query.User)
	}
	s.Update(key("u"))
	if s.query.User != "" || len(s.visible) != 3 {
		t.Errorf("should wrap to all users, got %q", s.query.User)
	}
}

func TestResultsScreen_SearchEscClears(t *testing.T) {
	s := loaded(t)
	s.Update(key("/"))
	s.search.SetValue("bob")
	s.apply()
	if ids(s.visible) != "r2" {
		t.Fatalf("search = %s", ids(s.visible))
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("esc in search should not leave")
	}
	if len(s.visible) != 3 {
		t.Error("search not cleared")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("second esc should pop")
	}
}

func TestResultsScreen_UserSummaries(t *testing.T) {
	s := loaded(t)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	view := s.View(120, 40)
	if !strings.Contains(view, "Last active") || !strings.Contains(view, "bob@example.com") {
		t.Errorf("summaries not shown:\n%s", view)
	}
	if len(s.users) != 2 {
		t.Errorf("users = %d", len(s.users))
	}
}

func TestResultsScreen_Export(t *testing.T) {
	s := loaded(t)
	s.Update(key("f")) // completed only
	_, cmd := s.Update(key("x"))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	msg := cmd().(exportedMsg)
	if msg.Err != nil {
		t.Fatalf("export: %v", msg.Err)
	}
	if filepath.Base(msg.Path) != "test-results-2025-03-07.csv" {
		t.Errorf("path = %s", msg.Path)
	}

	data, err := os.ReadFile(msg.Path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("exported %d lines, want header + 2", len(lines))
	}

	s.Update(msg)
	if !strings.Contains(s.View(200, 40), "Exported to") {
		t.Error("export notice missing")
	}
}

func TestResultsScreen_ExportNothing(t *testing.T) {
	s := New(&mockBackend{}, t.TempDir())
	s.Update(s.Init()())
	_, cmd := s.Update(key("x"))
	if cmd != nil {
		t.Error("empty export should not run")
	}
	if !strings.Contains(s.View(120, 40), "Nothing to export") {
		t.Error("expected message")
	}
}

func TestResultsScreen_Forbidden(t *testing.T) {
	s := New(&mockBackend{err: &api.ErrStatus{Status: 403, Message: "Admin access required"}}, t.TempDir())
	_, cmd := s.Update(s.Init()())
	if _, ok := cmd().(screen.SessionExpiredMsg); !ok {
		t.Error("expected SessionExpiredMsg")
	}
}
