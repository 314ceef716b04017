package stats

import (
	"fmt"
	"strconv"
	"time"
)

// DifficultyBand names a server difficulty level.
func DifficultyBand(d int) string {
	switch {
	case d <= 3:
		return "Easy"
	case d <= 6:
		return "Medium"
	case d <= 8:
		return "Hard"
	}
	return "Expert"
}

// ScoreBand classifies a score for coloring.
type ScoreBand int

const (
	ScorePoor ScoreBand = iota
	ScoreFair
	ScoreGood
)

// BandForScore returns Good at 80 and above, Fair at 60 and above.
func BandForScore(score float64) ScoreBand {
	switch {
	case score >= 80:
		return ScoreGood
	case score >= 60:
		return ScoreFair
	}
	return ScorePoor
}

// Status labels a test by its completion flag.
func Status(testOver bool) string {
	if testOver {
		return "Completed"
	}
	return "In Progress"
}

// FormatMinutes renders a duration in minutes as "45m", "2h" or "1h 30m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatScore drops a trailing ".0" from whole scores.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// FormatDate renders a timestamp for tables, or "-" when unknown.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 2, 15:04")
}
