package session

import "github.com/abhisek/adaptest/internal/api"

// NoSelection marks an Answering state with no option chosen yet.
const NoSelection = -1

// State is one of Idle, AwaitingQuestion, Answering, Submitting or
// Finished. Each state carries only the data that is valid in it.
type State interface {
	// Name returns a short label for logging and display.
	Name() string
	isState()
}

// Idle is the state before a test id is known.
type Idle struct{}

// AwaitingQuestion means a question fetch is in flight, or has failed and
// is waiting for the user to retry.
type AwaitingQuestion struct {
	// Stalled is set after a failed fetch. No request is in flight.
	Stalled bool
	Err     error
}

// Answering means a question is displayed and the countdown is running.
type Answering struct {
	Question *api.Question
	Selected int // NoSelection until the user picks an option

	// Err is set when returning here after a failed submission.
	Err error
}

// HasSelection reports whether an option has been chosen.
func (a Answering) HasSelection() bool { return a.Selected != NoSelection }

// Submitting means an answer for Question is in flight.
type Submitting struct {
	Question *api.Question
	Selected int // option index or api.Unanswered
	TimedOut bool
}

// Finished is terminal. Test is the server's final snapshot, nil when the
// attempt ended without one (no first question, or abandoned).
type Finished struct {
	Test      *api.Test
	Abandoned bool
}

func (Idle) Name() string             { return "idle" }
func (AwaitingQuestion) Name() string { return "awaiting_question" }
func (Answering) Name() string        { return "answering" }
func (Submitting) Name() string       { return "submitting" }
func (Finished) Name() string         { return "finished" }

func (Idle) isState()             {}
func (AwaitingQuestion) isState() {}
func (Answering) isState()        {}
func (Submitting) isState()       {}
func (Finished) isState()         {}
