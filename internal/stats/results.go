package stats

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/adaptest/internal/api"
)

// StatusFilter selects results by completion.
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusCompleted  StatusFilter = "completed"
	StatusInProgress StatusFilter = "in_progress"
)

// SortKey orders admin results.
type SortKey string

const (
	SortDate       SortKey = "date"
	SortScore      SortKey = "score"
	SortDifficulty SortKey = "difficulty"
)

// Order is the sort direction.
type Order string

const (
	Desc Order = "desc"
	Asc  Order = "asc"
)

// Query filters and sorts admin results.
type Query struct {
	User   string // exact email, empty for all users
	Status StatusFilter
	Search string // case-insensitive substring of email or test name
	Sort   SortKey
	Order  Order
}

// DefaultQuery shows everything, newest first.
func DefaultQuery() Query {
	return Query{Status: StatusAll, Sort: SortDate, Order: Desc}
}

// Validate rejects unknown enum values.
func (q Query) Validate() error {
	switch q.Status {
	case StatusAll, StatusCompleted, StatusInProgress, "":
	default:
		return fmt.Errorf("unknown status %q (want all, completed or in_progress)", q.Status)
	}
	switch q.Sort {
	case SortDate, SortScore, SortDifficulty, "":
	default:
		return fmt.Errorf("unknown sort %q (want date, score or difficulty)", q.Sort)
	}
	switch q.Order {
	case Asc, Desc, "":
	default:
		return fmt.Errorf("unknown order %q (want asc or desc)", q.Order)
	}
	return nil
}

// Apply returns the matching results in order. The input is not modified.
func (q Query) Apply(results []api.TestResult) []api.TestResult {
	search := strings.ToLower(q.Search)

	out := make([]api.TestResult, 0, len(results))
	for _, r := range results {
		if q.User != "" && r.Email() != q.User {
			continue
		}
		if q.Status == StatusCompleted && !r.TestOver {
			continue
		}
		if q.Status == StatusInProgress && r.TestOver {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Email()), search) &&
			!strings.Contains(strings.ToLower(r.TestName), search) {
			continue
		}
		out = append(out, r)
	}

	// Descending is the natural order; ascending flips it.
	slices.SortStableFunc(out, func(a, b api.TestResult) int {
		var c int
		switch q.Sort {
		case SortScore:
			c = cmp.Compare(b.Score, a.Score)
		case SortDifficulty:
			c = b.CurrentDifficulty - a.CurrentDifficulty
		default:
			c = b.CreatedAt.Compare(a.CreatedAt)
		}
		if q.Order == Asc {
			return -c
		}
		return c
	})
	return out
}

// Next cycles date → score → difficulty.
func (k SortKey) Next() SortKey {
	switch k {
	case SortDate:
		return SortScore
	case SortScore:
		return SortDifficulty
	}
	return SortDate
}

// Next cycles all → completed → in_progress.
func (s StatusFilter) Next() StatusFilter {
	switch s {
	case StatusAll, "":
		return StatusCompleted
	case StatusCompleted:
		return StatusInProgress
	}
	return StatusAll
}

// Toggle flips the order.
func (o Order) Toggle() Order {
	if o == Asc {
		return Desc
	}
	return Asc
}

// UserSummary aggregates one user's attempts.
type UserSummary struct {
	Email              string
	UserID             string
	TotalTests         int
	CompletedTests     int
	AverageScore       int // rounded mean of completed tests
	BestScore          float64
	QuestionsAttempted int
	LastActivity       time.Time
}

// Summaries groups results by email, most recently active first.
func Summaries(results []api.TestResult) []UserSummary {
	byEmail := map[string]*UserSummary{}
	doneScore := map[string]float64{}
	var order []string

	for _, r := range results {
		email := r.Email()
		s, ok := byEmail[email]
		if !ok {
			s = &UserSummary{Email: email}
			if r.User != nil {
				s.UserID = r.User.ID
			}
			byEmail[email] = s
			order = append(order, email)
		}
		s.TotalTests++
		s.QuestionsAttempted += r.QuestionsAttempted
		s.BestScore = max(s.BestScore, r.Score)
		if r.TestOver {
			s.CompletedTests++
			doneScore[email] += r.Score
		}
		if r.UpdatedAt.After(s.LastActivity) {
			s.LastActivity = r.UpdatedAt
		}
	}

	out := make([]UserSummary, 0, len(order))
	for _, email := range order {
		s := byEmail[email]
		if s.CompletedTests > 0 {
			s.AverageScore = int(math.Round(doneScore[email] / float64(s.CompletedTests)))
		}
		out = append(out, *s)
	}
	slices.SortStableFunc(out, func(a, b UserSummary) int {
		return b.LastActivity.Compare(a.LastActivity)
	})
	return out
}
