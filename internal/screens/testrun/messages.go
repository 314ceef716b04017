package testrun

import "github.com/abhisek/adaptest/internal/api"

// testStartedMsg is sent when the backend has created the test attempt.
type testStartedMsg struct {
	TestID string
	Err    error
}

// questionMsg carries the result of a question fetch. A nil Question with
// no error means the test has nothing more to ask.
type questionMsg struct {
	Question *api.Question
	Err      error
}

// answerMsg carries the server's verdict on a submission.
type answerMsg struct {
	Result api.AnswerResult
	Err    error
}
