package session

import (
	"errors"
	"fmt"

	"github.com/abhisek/adaptest/internal/api"
)

var (
	// ErrNoSelection is returned by Submit when no option was chosen.
	ErrNoSelection = errors.New("please select an answer")

	// ErrInvalidOption is returned by Select for an out-of-range index.
	ErrInvalidOption = errors.New("invalid option")

	// ErrWrongState is returned when a transition is not valid in the
	// current state.
	ErrWrongState = errors.New("invalid in current state")
)

// Submission is an answer the caller must send to the backend.
type Submission struct {
	TestID     string
	QuestionID string
	Selected   int
}

// Effect tells the caller which I/O a transition requires. The runner
// never performs I/O itself.
type Effect struct {
	// Fetch asks for the test's current question.
	Fetch bool

	// Submit is the answer to send, if any.
	Submit *Submission

	// ResetCountdown restarts the per-question countdown.
	ResetCountdown bool

	// StopCountdown cancels the countdown.
	StopCountdown bool
}

// Runner drives one test attempt from its first question to Finished.
// It is not safe for concurrent use; the UI loop owns it.
type Runner struct {
	testID   string
	state    State
	answered int
	budget   int
	score    float64
}

// NewRunner creates an idle runner. budget is the nominal number of
// questions, used for progress display only.
func NewRunner(budget int) *Runner {
	return &Runner{state: Idle{}, budget: budget}
}

// State returns the current state.
func (r *Runner) State() State { return r.state }

// TestID returns the test id, or "" while idle.
func (r *Runner) TestID() string { return r.testID }

// Answered returns the number of submissions made, explicit or timed out.
func (r *Runner) Answered() int { return r.answered }

// Budget returns the nominal question count.
func (r *Runner) Budget() int { return r.budget }

// Score returns the latest score reported by the server.
func (r *Runner) Score() float64 { return r.score }

// Question returns the live question, or nil when none is displayed or in
// flight.
func (r *Runner) Question() *api.Question {
	switch s := r.state.(type) {
	case Answering:
		return s.Question
	case Submitting:
		return s.Question
	}
	return nil
}

// Done reports whether the runner reached Finished.
func (r *Runner) Done() bool {
	_, ok := r.state.(Finished)
	return ok
}

// Start begins the attempt and requests the first question.
func (r *Runner) Start(testID string) (Effect, error) {
	if _, ok := r.state.(Idle); !ok {
		return Effect{}, r.wrongState("start")
	}
	if testID == "" {
		return Effect{}, errors.New("start: empty test id")
	}
	r.testID = testID
	r.state = AwaitingQuestion{}
	return Effect{Fetch: true}, nil
}

// QuestionLoaded handles a successful fetch. A nil question means the
// backend has nothing more to ask and the attempt is finished.
func (r *Runner) QuestionLoaded(q *api.Question) (Effect, error) {
	s, ok := r.state.(AwaitingQuestion)
	if !ok || s.Stalled {
		return Effect{}, r.wrongState("question loaded")
	}
	if q == nil {
		r.state = Finished{}
		return Effect{StopCountdown: true}, nil
	}
	r.state = Answering{Question: q, Selected: NoSelection}
	return Effect{ResetCountdown: true}, nil
}

// FetchFailed handles a failed fetch. The runner stays in
// AwaitingQuestion, stalled until Retry.
func (r *Runner) FetchFailed(err error) error {
	s, ok := r.state.(AwaitingQuestion)
	if !ok || s.Stalled {
		return r.wrongState("fetch failed")
	}
	r.state = AwaitingQuestion{Stalled: true, Err: err}
	return nil
}

// Retry re-requests the question after a failed fetch.
func (r *Runner) Retry() (Effect, error) {
	s, ok := r.state.(AwaitingQuestion)
	if !ok || !s.Stalled {
		return Effect{}, r.wrongState("retry")
	}
	r.state = AwaitingQuestion{}
	return Effect{Fetch: true}, nil
}

// Select chooses an option of the live question.
func (r *Runner) Select(i int) error {
	s, ok := r.state.(Answering)
	if !ok {
		return r.wrongState("select")
	}
	if !s.Question.ValidOption(i) {
		return fmt.Errorf("%w: %d", ErrInvalidOption, i)
	}
	s.Selected = i
	r.state = s
	return nil
}

// Submit sends the chosen option. It fails with ErrNoSelection, before
// producing any request, when nothing is selected.
func (r *Runner) Submit() (Effect, error) {
	s, ok := r.state.(Answering)
	if !ok {
		return Effect{}, r.wrongState("submit")
	}
	if !s.HasSelection() {
		return Effect{}, ErrNoSelection
	}
	return r.submit(s.Question, s.Selected, false), nil
}

// Expire submits api.Unanswered because the countdown ran out.
func (r *Runner) Expire() (Effect, error) {
	s, ok := r.state.(Answering)
	if !ok {
		return Effect{}, r.wrongState("expire")
	}
	return r.submit(s.Question, api.Unanswered, true), nil
}

func (r *Runner) submit(q *api.Question, selected int, timedOut bool) Effect {
	r.answered++
	r.state = Submitting{Question: q, Selected: selected, TimedOut: timedOut}
	return Effect{
		Submit: &Submission{
			TestID:     r.testID,
			QuestionID: q.ID,
			Selected:   selected,
		},
		StopCountdown: true,
	}
}

// AnswerAccepted handles the server's verdict on a submission. The attempt
// finishes when the server says the test is over or has no next question;
// otherwise the next question is requested.
func (r *Runner) AnswerAccepted(res api.AnswerResult) (Effect, error) {
	if _, ok := r.state.(Submitting); !ok {
		return Effect{}, r.wrongState("answer accepted")
	}
	if res.Test != nil {
		r.score = res.Test.Score
	}
	if res.Finished() {
		r.state = Finished{Test: res.Test}
		return Effect{StopCountdown: true}, nil
	}
	r.state = AwaitingQuestion{}
	return Effect{Fetch: true}, nil
}

// SubmitFailed returns to answering the same question with the same
// selection. The answered counter keeps its increment. The countdown
// restarts so the question can still time out.
func (r *Runner) SubmitFailed(err error) (Effect, error) {
	s, ok := r.state.(Submitting)
	if !ok {
		return Effect{}, r.wrongState("submit failed")
	}
	selected := s.Selected
	if s.TimedOut {
		selected = NoSelection
	}
	r.state = Answering{Question: s.Question, Selected: selected, Err: err}
	return Effect{ResetCountdown: true}, nil
}

// Skip moves on without submitting. The answered counter is unchanged.
// From a stalled fetch it acts as Retry.
func (r *Runner) Skip() (Effect, error) {
	switch s := r.state.(type) {
	case Answering:
		r.state = AwaitingQuestion{}
		return Effect{Fetch: true, StopCountdown: true}, nil
	case AwaitingQuestion:
		if s.Stalled {
			return r.Retry()
		}
	}
	return Effect{}, r.wrongState("skip")
}

// Abandon ends the attempt without a snapshot, e.g. when the user leaves
// the screen. Abandoning a finished runner does nothing.
func (r *Runner) Abandon() Effect {
	if r.Done() {
		return Effect{}
	}
	r.state = Finished{Abandoned: true}
	return Effect{StopCountdown: true}
}

func (r *Runner) wrongState(op string) error {
	return fmt.Errorf("%s: %w (%s)", op, ErrWrongState, r.state.Name())
}
