// Package stats derives dashboard numbers and admin reports from the test
// lists the backend returns. All scoring itself is done by the backend.
package stats

import (
	"math"

	"github.com/abhisek/adaptest/internal/api"
)

// HistoryStats are the learner dashboard aggregates.
type HistoryStats struct {
	AverageScore   int // rounded mean score of completed tests
	BestScore      float64
	TotalQuestions int
	Accuracy       int // rounded percent: total score / total questions attempted
	StreakRecord   int
	Completed      int
	InProgress     int

	AverageDifficulty int // rounded mean currentDifficulty over all tests
	CompletionRate    int // rounded percent of tests that are over
}

// FromHistory computes dashboard stats. history is newest first.
func FromHistory(history []api.Test) HistoryStats {
	var (
		s          HistoryStats
		totalScore float64
		doneScore  float64
		difficulty int
	)
	for _, t := range history {
		s.TotalQuestions += t.QuestionsAttempted
		totalScore += t.Score
		difficulty += t.CurrentDifficulty
		s.StreakRecord = max(s.StreakRecord, t.CorrectStreak)
		if !t.TestOver {
			s.InProgress++
			continue
		}
		s.Completed++
		doneScore += t.Score
		s.BestScore = max(s.BestScore, t.Score)
	}

	if s.Completed > 0 {
		s.AverageScore = int(math.Round(doneScore / float64(s.Completed)))
	}
	if n := len(history); n > 0 {
		s.AverageDifficulty = int(math.Round(float64(difficulty) / float64(n)))
		s.CompletionRate = int(math.Round(float64(s.Completed) / float64(n) * 100))
	}
	if s.TotalQuestions > 0 {
		s.Accuracy = int(math.Round(totalScore / float64(s.TotalQuestions) * 100))
	}
	return s
}

// Trend is the direction of recent completed scores.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// recentWindow is how many of the newest tests the trend looks at.
const recentWindow = 3

// PerformanceTrend compares the newest and oldest completed scores among
// the most recent tests. history is newest first.
func PerformanceTrend(history []api.Test) Trend {
	if len(history) < 2 {
		return TrendNeutral
	}

	var scores []float64
	for _, t := range history[:min(recentWindow, len(history))] {
		if t.TestOver {
			scores = append(scores, t.Score)
		}
	}
	if len(scores) < 2 {
		return TrendNeutral
	}

	latest, earliest := scores[0], scores[len(scores)-1]
	switch {
	case latest > earliest:
		return TrendUp
	case latest < earliest:
		return TrendDown
	}
	return TrendNeutral
}

// Arrow renders the trend as a single glyph.
func (t Trend) Arrow() string {
	switch t {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	}
	return "→"
}
