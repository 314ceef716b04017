package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your test statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, user, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if user == nil {
			return errNotLoggedIn
		}

		history, err := d.client.History(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		st := stats.FromHistory(history)
		trend := stats.PerformanceTrend(history)

		fmt.Println(user.Email)
		fmt.Printf("  Average score    %d\n", st.AverageScore)
		fmt.Printf("  Best score       %s\n", stats.FormatScore(st.BestScore))
		fmt.Printf("  Questions        %d\n", st.TotalQuestions)
		fmt.Printf("  Accuracy         %d%%\n", st.Accuracy)
		fmt.Printf("  Streak record    %d\n", st.StreakRecord)
		fmt.Printf("  Completed        %d\n", st.Completed)
		fmt.Printf("  In progress      %d\n", st.InProgress)
		fmt.Printf("  Completion       %d%%\n", st.CompletionRate)
		fmt.Printf("  Avg difficulty   %d/10\n", st.AverageDifficulty)
		fmt.Printf("  Trend            %s %s\n", trend.Arrow(), trend)
		return nil
	},
}
