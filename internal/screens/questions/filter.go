package questions

import (
	"strings"

	"github.com/abhisek/adaptest/internal/api"
)

// AllDifficulties disables the difficulty filter.
const AllDifficulties = 0

// MaxDifficulty is the highest difficulty level a bank question can have.
const MaxDifficulty = 10

// Filter returns the questions whose text or category contains search
// (case-insensitive) and whose difficulty matches. Order is preserved.
func Filter(questions []api.BankQuestion, search string, difficulty int) []api.BankQuestion {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []api.BankQuestion
	for _, q := range questions {
		if difficulty != AllDifficulties && q.Difficulty != difficulty {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(q.Text), search) &&
			!strings.Contains(strings.ToLower(q.Category), search) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// nextDifficulty cycles all, 1..10, all.
func nextDifficulty(d int) int {
	if d >= MaxDifficulty {
		return AllDifficulties
	}
	return d + 1
}
