package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/session"
)

func testSummary() *session.Summary {
	return &session.Summary{
		TestID:             "t1",
		Score:              7.5,
		QuestionsAttempted: 3,
		Correct:            2,
		CorrectStreak:      1,
		FinalDifficulty:    6,
		Answers: []api.TestAnswer{
			{QuestionID: "q1", Difficulty: 5, Selected: 1, Correct: true},
			{QuestionID: "q2", Difficulty: 6, Selected: api.Unanswered, Correct: false},
			{QuestionID: "q3", Difficulty: 6, Selected: 0, Correct: true},
		},
		Submitted:   3,
		HasSnapshot: true,
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary())
	if s.Title() != "Test Complete" {
		t.Errorf("Title = %q, want %q", s.Title(), "Test Complete")
	}
}

func TestSummaryScreen_ShowsServerValues(t *testing.T) {
	view := New(testSummary()).View(100, 40)
	for _, want := range []string{"7.5", "Medium (level 6)", "timeout", "B"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "%") {
		t.Error("summary should not show a client-side percentage")
	}
}

func TestSummaryScreen_NoSnapshot(t *testing.T) {
	view := New(&session.Summary{Submitted: 4}).View(100, 30)
	if !strings.Contains(view, "You answered 4 questions") {
		t.Errorf("expected submitted count in view:\n%s", view)
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter (pop)")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSummaryScreen_Scroll(t *testing.T) {
	s := New(testSummary())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.offset != 2 {
		t.Errorf("offset = %d, want 2 (clamped)", s.offset)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.offset != 1 {
		t.Errorf("offset = %d, want 1", s.offset)
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if got := len(New(testSummary()).KeyHints()); got != 2 {
		t.Errorf("KeyHints length = %d, want 2", got)
	}
	if got := len(New(&session.Summary{}).KeyHints()); got != 1 {
		t.Errorf("KeyHints without answers = %d, want 1", got)
	}
}
