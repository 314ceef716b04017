package home

import "github.com/abhisek/adaptest/internal/api"

// historyLoadedMsg carries the learner's tests, newest first.
type historyLoadedMsg struct {
	Tests []api.Test
	Err   error
}
