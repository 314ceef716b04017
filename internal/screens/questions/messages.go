package questions

import "github.com/abhisek/adaptest/internal/api"

// questionsLoadedMsg carries the question bank.
type questionsLoadedMsg struct {
	Questions []api.BankQuestion
	Err       error
}

// deletedMsg is sent when a delete request completes.
type deletedMsg struct {
	ID  string
	Err error
}

// savedMsg is sent when the form's create or update request completes.
type savedMsg struct {
	Err error
}
