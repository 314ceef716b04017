package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/abhisek/adaptest/internal/api"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// CSVHeader is the column layout of exported results.
var CSVHeader = []string{"User", "Score", "Status", "Questions", "Difficulty", "Streak", "Created At"}

// ExportRow is one exported result.
type ExportRow struct {
	User       string    `json:"user"`
	Score      float64   `json:"score"`
	Status     string    `json:"status"`
	Questions  int       `json:"questions"`
	Difficulty int       `json:"difficulty"`
	Streak     int       `json:"streak"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Rows converts results to export rows.
func Rows(results []api.TestResult) []ExportRow {
	rows := make([]ExportRow, len(results))
	for i, r := range results {
		rows[i] = ExportRow{
			User:       r.Email(),
			Score:      r.Score,
			Status:     Status(r.TestOver),
			Questions:  r.QuestionsAttempted,
			Difficulty: r.CurrentDifficulty,
			Streak:     r.CorrectStreak,
			CreatedAt:  r.CreatedAt,
		}
	}
	return rows
}

// Export writes results to w in the given format.
func Export(w io.Writer, format string, results []api.TestResult) error {
	switch format {
	case FormatCSV, "":
		return WriteCSV(w, results)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Rows(results))
	}
	return fmt.Errorf("unknown export format %q (want csv or json)", format)
}

// WriteCSV writes a header and one line per result.
func WriteCSV(w io.Writer, results []api.TestResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range Rows(results) {
		created := ""
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.Local().Format("2006-01-02 15:04:05")
		}
		record := []string{
			r.User,
			FormatScore(r.Score),
			r.Status,
			strconv.Itoa(r.Questions),
			strconv.Itoa(r.Difficulty),
			strconv.Itoa(r.Streak),
			created,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFileName returns test-results-YYYY-MM-DD.<ext> for the given day.
func ExportFileName(now time.Time, format string) string {
	if format == "" {
		format = FormatCSV
	}
	return fmt.Sprintf("test-results-%s.%s", now.Format(time.DateOnly), format)
}
