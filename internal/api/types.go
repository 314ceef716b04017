package api

import "time"

// Unanswered is the selection submitted when a question times out.
const Unanswered = -1

// Question is the unit of work presented to the learner. Options are
// position-significant: the submitted selection is an index into them.
type Question struct {
	ID          string   `json:"_id"`
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Difficulty  int      `json:"difficulty"`
	Weight      float64  `json:"weight"`
	Explanation string   `json:"explanation,omitempty"`
}

// ValidOption reports whether i indexes one of the question's options.
func (q *Question) ValidOption(i int) bool {
	return q != nil && i >= 0 && i < len(q.Options)
}

// TestAnswer is one graded answer inside a test snapshot.
type TestAnswer struct {
	QuestionID string `json:"questionId"`
	Difficulty int    `json:"difficulty"`
	Selected   int    `json:"selected"`
	Correct    bool   `json:"correct"`
}

// Test is the server's snapshot of one test attempt.
type Test struct {
	ID                 string       `json:"_id"`
	UserID             string       `json:"userId"`
	CurrentDifficulty  int          `json:"currentDifficulty"`
	QuestionsAttempted int          `json:"questionsAttempted"`
	CorrectStreak      int          `json:"correctStreak"`
	TestOver           bool         `json:"testOver"`
	Score              float64      `json:"score"`
	Answers            []TestAnswer `json:"answers"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// CorrectCount returns the number of answers graded correct.
func (t *Test) CorrectCount() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, a := range t.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// AnswerResult is the server's verdict after an answer submission.
type AnswerResult struct {
	NextQuestionAvailable bool  `json:"nextQuestionAvailable"`
	TestOver              bool  `json:"testOver"`
	Test                  *Test `json:"test"`
}

// Finished reports whether the attempt is over.
func (r AnswerResult) Finished() bool {
	return r.TestOver || !r.NextQuestionAvailable
}

// StartResult is returned when a new test attempt is created.
type StartResult struct {
	ID string `json:"_id"`
}

// Credentials is the login/register request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token   string `json:"token"`
	IsAdmin bool   `json:"isAdmin"`
	Email   string `json:"email"`
}

// Me is the current user's profile.
type Me struct {
	ID      string `json:"_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// ResultUser is the populated user reference on an admin result.
type ResultUser struct {
	ID      string `json:"_id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// TestResult is one attempt as listed in the admin results view.
type TestResult struct {
	ID                 string      `json:"_id"`
	User               *ResultUser `json:"userId"`
	CurrentDifficulty  int         `json:"currentDifficulty"`
	QuestionsAttempted int         `json:"questionsAttempted"`
	CorrectStreak      int         `json:"correctStreak"`
	TestOver           bool        `json:"testOver"`
	Score              float64     `json:"score"`
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
	TestName           string      `json:"testName,omitempty"`
}

// Email returns the result owner's email or "Unknown".
func (r TestResult) Email() string {
	if r.User == nil || r.User.Email == "" {
		return "Unknown"
	}
	return r.User.Email
}

// OptionCount is the fixed number of options in a bank question.
const OptionCount = 4

// BankQuestion is a question as managed in the admin question bank.
type BankQuestion struct {
	ID           string   `json:"_id,omitempty"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Difficulty   int      `json:"difficulty"`
	Weight       float64  `json:"weight"`
	Category     string   `json:"category,omitempty"`
}
