package session

import "github.com/abhisek/adaptest/internal/api"

// Summary holds the data displayed on the finish screen. Every value comes
// from the server snapshot except Submitted, which is the local count.
type Summary struct {
	TestID             string
	Score              float64
	QuestionsAttempted int
	Correct            int
	CorrectStreak      int
	FinalDifficulty    int
	Answers            []api.TestAnswer
	Submitted          int
	Abandoned          bool
	HasSnapshot        bool
}

// BuildSummary creates a Summary from a runner. Fields missing from the
// snapshot stay zero.
func BuildSummary(r *Runner) *Summary {
	sum := &Summary{
		TestID:    r.TestID(),
		Score:     r.Score(),
		Submitted: r.Answered(),
	}

	f, ok := r.State().(Finished)
	if !ok {
		return sum
	}
	sum.Abandoned = f.Abandoned
	if f.Test == nil {
		return sum
	}

	t := f.Test
	sum.HasSnapshot = true
	sum.Score = t.Score
	sum.QuestionsAttempted = t.QuestionsAttempted
	sum.Correct = t.CorrectCount()
	sum.CorrectStreak = t.CorrectStreak
	sum.FinalDifficulty = t.CurrentDifficulty
	sum.Answers = t.Answers
	return sum
}
