package session

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/abhisek/adaptest/internal/store"
)

// Journal actions.
const (
	ActionStart   = "start"
	ActionAnswer  = "answer"
	ActionTimeout = "timeout"
	ActionSkip    = "skip"
	ActionFinish  = "finish"
	ActionAbandon = "abandon"
)

// Journal records the steps of one local run of a test to the event store.
// A nil repo makes every call a no-op.
type Journal struct {
	repo      store.EventRepo
	sessionID string
}

// NewJournal creates a journal with a fresh session id.
func NewJournal(repo store.EventRepo) *Journal {
	return &Journal{repo: repo, sessionID: uuid.NewString()}
}

// SessionID returns the local session id.
func (j *Journal) SessionID() string { return j.sessionID }

// Record appends one step for the runner's current test.
func (j *Journal) Record(ctx context.Context, r *Runner, action string, sub *Submission) {
	if j == nil || j.repo == nil {
		return
	}
	data := store.SessionEventData{
		SessionID: j.sessionID,
		TestID:    r.TestID(),
		Action:    action,
		Answered:  r.Answered(),
		Score:     r.Score(),
	}
	if sub != nil {
		data.QuestionID = sub.QuestionID
		data.Selected = sub.Selected
	} else if q := r.Question(); q != nil {
		data.QuestionID = q.ID
	}

	// Journal failures never interrupt the test.
	if err := j.repo.AppendSessionEvent(ctx, data); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log session event: %v\n", err)
	}
}
