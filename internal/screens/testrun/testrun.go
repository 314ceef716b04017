// Package testrun is the screen that takes a learner through one test
// attempt: fetch a question, count down, submit or time out, and advance
// until the backend says the test is over.
package testrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/adaptest/internal/api"
	"github.com/abhisek/adaptest/internal/countdown"
	"github.com/abhisek/adaptest/internal/router"
	"github.com/abhisek/adaptest/internal/screen"
	"github.com/abhisek/adaptest/internal/screens/summary"
	sess "github.com/abhisek/adaptest/internal/session"
	"github.com/abhisek/adaptest/internal/store"
	"github.com/abhisek/adaptest/internal/ui/components"
	"github.com/abhisek/adaptest/internal/ui/layout"
)

// Backend is the part of the API client the runner screen needs.
type Backend interface {
	StartTest(ctx context.Context) (string, error)
	NextQuestion(ctx context.Context, testID string) (*api.Question, error)
	SubmitAnswer(ctx context.Context, testID, questionID string, selected int) (api.AnswerResult, error)
}

// Options configures a runner screen.
type Options struct {
	// TestID resumes an existing attempt. Empty starts a new one.
	TestID string

	QuestionTime   time.Duration
	QuestionBudget int
}

// TestRunScreen implements screen.Screen for an active test.
type TestRunScreen struct {
	backend   Backend
	eventRepo store.EventRepo
	opts      Options

	runner    *sess.Runner
	journal   *sess.Journal
	countdown countdown.Model
	options   components.OptionList

	startErr    error
	notice      string
	confirmQuit bool
}

var _ screen.Screen = (*TestRunScreen)(nil)
var _ screen.KeyHintProvider = (*TestRunScreen)(nil)
var _ screen.EscapeHandler = (*TestRunScreen)(nil)

// New creates a runner screen. eventRepo may be nil, which disables the
// journal and diagnostics.
func New(backend Backend, eventRepo store.EventRepo, opts Options) *TestRunScreen {
	return &TestRunScreen{
		backend:   backend,
		eventRepo: eventRepo,
		opts:      opts,
		runner:    sess.NewRunner(opts.QuestionBudget),
		journal:   sess.NewJournal(eventRepo),
		countdown: countdown.New(opts.QuestionTime),
	}
}

func (s *TestRunScreen) Init() tea.Cmd {
	if s.opts.TestID != "" {
		id := s.opts.TestID
		return func() tea.Msg { return testStartedMsg{TestID: id} }
	}
	return s.startTest()
}

func (s *TestRunScreen) Title() string {
	return "Test"
}

// HandlesEscape keeps the app from popping the screen mid-test; Esc asks
// for confirmation instead.
func (s *TestRunScreen) HandlesEscape() bool {
	return true
}

func (s *TestRunScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave test"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.startErr != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	}
	switch st := s.runner.State().(type) {
	case sess.Answering:
		return []layout.KeyHint{
			{Key: "↑↓/A-D", Description: "Choose"},
			{Key: "Enter", Description: "Save & Next"},
			{Key: "S", Description: "Skip"},
			{Key: "Esc", Description: "Leave"},
		}
	case sess.AwaitingQuestion:
		if st.Stalled {
			return []layout.KeyHint{
				{Key: "Enter", Description: "Continue"},
				{Key: "Esc", Description: "Leave"},
			}
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Leave"},
	}
}

func (s *TestRunScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case testStartedMsg:
		return s.handleStarted(msg)

	case questionMsg:
		return s.handleQuestion(msg)

	case answerMsg:
		return s.handleAnswer(msg)

	case countdown.TickMsg:
		var cmd tea.Cmd
		s.countdown, cmd = s.countdown.Update(msg)
		return s, cmd

	case countdown.ExpiredMsg:
		return s.handleExpired(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *TestRunScreen) handleStarted(msg testStartedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.startErr = msg.Err
		s.report(msg.Err)
		return s, screen.Expired(msg.Err)
	}
	s.startErr = nil
	eff, err := s.runner.Start(msg.TestID)
	if err != nil {
		s.startErr = err
		s.report(err)
		return s, nil
	}
	s.journal.Record(context.Background(), s.runner, sess.ActionStart, nil)
	return s, s.apply(eff)
}

func (s *TestRunScreen) handleQuestion(msg questionMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if err := s.runner.FetchFailed(msg.Err); err != nil {
			s.report(err)
			return s, nil
		}
		s.notice = api.Message(msg.Err)
		s.report(msg.Err)
		return s, screen.Expired(msg.Err)
	}

	eff, err := s.runner.QuestionLoaded(msg.Question)
	if err != nil {
		s.report(err)
		return s, nil
	}
	s.notice = ""
	if q := s.runner.Question(); q != nil {
		s.options = components.NewOptionList(q.Options)
	}
	return s, s.apply(eff)
}

func (s *TestRunScreen) handleAnswer(msg answerMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		eff, err := s.runner.SubmitFailed(msg.Err)
		if err != nil {
			s.report(err)
			return s, nil
		}
		if st, ok := s.runner.State().(sess.Answering); ok {
			s.options.Selected = st.Selected
			s.options.Disabled = false
		}
		s.notice = api.Message(msg.Err)
		s.report(msg.Err)
		return s, tea.Batch(s.apply(eff), screen.Expired(msg.Err))
	}

	eff, err := s.runner.AnswerAccepted(msg.Result)
	if err != nil {
		s.report(err)
		return s, nil
	}
	return s, s.apply(eff)
}

func (s *TestRunScreen) handleExpired(msg countdown.ExpiredMsg) (screen.Screen, tea.Cmd) {
	// An expiry armed for a previous question must not submit this one.
	if !s.countdown.Current(msg) {
		return s, nil
	}
	if _, ok := s.runner.State().(sess.Answering); !ok {
		return s, nil
	}
	s.confirmQuit = false
	eff, err := s.runner.Expire()
	if err != nil {
		s.report(err)
		return s, nil
	}
	s.journal.Record(context.Background(), s.runner, sess.ActionTimeout, eff.Submit)
	s.notice = "Time's up!"
	return s, s.apply(eff)
}

func (s *TestRunScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			return s.leave()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.startErr != nil {
		switch key {
		case "enter":
			s.startErr = nil
			return s, s.Init()
		case "esc":
			return s.leave()
		}
		return s, nil
	}

	if key == "esc" {
		if _, idle := s.runner.State().(sess.Idle); idle {
			return s.leave()
		}
		s.confirmQuit = true
		return s, nil
	}

	switch st := s.runner.State().(type) {
	case sess.Answering:
		return s.handleAnsweringKey(msg)
	case sess.AwaitingQuestion:
		if st.Stalled && (key == "enter" || key == "r" || key == "s") {
			eff, err := s.runner.Retry()
			if err != nil {
				s.report(err)
				return s, nil
			}
			s.notice = ""
			return s, s.apply(eff)
		}
	}
	return s, nil
}

func (s *TestRunScreen) handleAnsweringKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		eff, err := s.runner.Submit()
		if errors.Is(err, sess.ErrNoSelection) {
			s.notice = "Please select an answer"
			s.report(err)
			return s, nil
		}
		if err != nil {
			s.report(err)
			return s, nil
		}
		s.notice = ""
		s.options.Disabled = true
		s.journal.Record(context.Background(), s.runner, sess.ActionAnswer, eff.Submit)
		return s, s.apply(eff)

	case "s", "S":
		// Record before skipping: the question is gone afterwards.
		s.journal.Record(context.Background(), s.runner, sess.ActionSkip, nil)
		eff, err := s.runner.Skip()
		if err != nil {
			s.report(err)
			return s, nil
		}
		s.notice = ""
		return s, s.apply(eff)
	}

	prev := s.options.Selected
	s.options, _ = s.options.Update(msg)
	if s.options.Selected != prev && s.options.Selected >= 0 {
		if err := s.runner.Select(s.options.Selected); err != nil {
			s.options.Selected = prev
			s.report(err)
			return s, nil
		}
		s.notice = ""
	}
	return s, nil
}

// leave abandons the attempt and pops the screen.
func (s *TestRunScreen) leave() (screen.Screen, tea.Cmd) {
	if _, idle := s.runner.State().(sess.Idle); !idle && !s.runner.Done() {
		s.apply(s.runner.Abandon())
		s.journal.Record(context.Background(), s.runner, sess.ActionAbandon, nil)
	}
	s.countdown = s.countdown.Stop()
	s.confirmQuit = false
	return s, func() tea.Msg { return router.PopScreenMsg{} }
}

// apply performs the I/O a runner transition asked for.
func (s *TestRunScreen) apply(eff sess.Effect) tea.Cmd {
	var cmds []tea.Cmd
	if eff.StopCountdown {
		s.countdown = s.countdown.Stop()
	}
	if eff.ResetCountdown {
		var cmd tea.Cmd
		s.countdown, cmd = s.countdown.Reset()
		cmds = append(cmds, cmd)
	}
	if eff.Fetch {
		cmds = append(cmds, s.fetchQuestion())
	}
	if eff.Submit != nil {
		cmds = append(cmds, s.submitAnswer(*eff.Submit))
	}

	if f, ok := s.runner.State().(sess.Finished); ok && !f.Abandoned {
		s.journal.Record(context.Background(), s.runner, sess.ActionFinish, nil)
		result := summary.New(sess.BuildSummary(s.runner))
		cmds = append(cmds, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: result}
		})
	}
	return tea.Batch(cmds...)
}

func (s *TestRunScreen) startTest() tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		id, err := backend.StartTest(context.Background())
		return testStartedMsg{TestID: id, Err: err}
	}
}

func (s *TestRunScreen) fetchQuestion() tea.Cmd {
	backend, testID := s.backend, s.runner.TestID()
	return func() tea.Msg {
		q, err := backend.NextQuestion(context.Background(), testID)
		return questionMsg{Question: q, Err: err}
	}
}

func (s *TestRunScreen) submitAnswer(sub sess.Submission) tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		res, err := backend.SubmitAnswer(context.Background(), sub.TestID, sub.QuestionID, sub.Selected)
		return answerMsg{Result: res, Err: err}
	}
}

// report records a failure to the diagnostic log. Failures to record are
// printed and otherwise ignored.
func (s *TestRunScreen) report(err error) {
	if s.eventRepo == nil || err == nil {
		return
	}
	kind := api.Kind(err)
	if errors.Is(err, sess.ErrNoSelection) || errors.Is(err, sess.ErrInvalidOption) {
		kind = store.KindValidation
	}
	data := store.ClientEventData{
		Kind:    kind,
		Screen:  "testrun",
		Message: fmt.Sprintf("test %s: %v", s.runner.TestID(), err),
	}
	if err := s.eventRepo.AppendClientEvent(context.Background(), data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log client event: %v\n", err)
	}
}
