package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/stats"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Admin access to every learner's results",
}

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered results as CSV or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := stats.DefaultQuery()
		user, _ := cmd.Flags().GetString("user")
		status, _ := cmd.Flags().GetString("status")
		search, _ := cmd.Flags().GetString("search")
		sort, _ := cmd.Flags().GetString("sort")
		order, _ := cmd.Flags().GetString("order")
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		q.User = user
		q.Search = search
		q.Status = stats.StatusFilter(status)
		q.Sort = stats.SortKey(sort)
		q.Order = stats.Order(order)
		if err := q.Validate(); err != nil {
			return err
		}
		if format != stats.FormatCSV && format != stats.FormatJSON {
			return fmt.Errorf("unknown format %q (want csv or json)", format)
		}

		d, me, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()
		if me == nil {
			return errNotLoggedIn
		}

		all, err := d.client.AllResults(cmd.Context())
		if err != nil {
			return fmt.Errorf("load results: %w", err)
		}
		results := q.Apply(all)

		var w io.Writer = os.Stdout
		if out != "-" {
			if out == "" {
				out = stats.ExportFileName(time.Now(), format)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}

		if err := stats.Export(w, format, results); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if out != "-" {
			fmt.Fprintf(os.Stderr, "Exported %d of %d results to %s\n", len(results), len(all), out)
		}
		return nil
	},
}

func init() {
	f := resultsExportCmd.Flags()
	f.String("out", "", `Output file (default test-results-YYYY-MM-DD.<format>, "-" for stdout)`)
	f.String("user", "", "Only this user's email")
	f.String("status", string(stats.StatusAll), "all, completed or in_progress")
	f.String("search", "", "Case-insensitive match on email or test name")
	f.String("sort", string(stats.SortDate), "date, score or difficulty")
	f.String("order", string(stats.Desc), "asc or desc")
	f.String("format", stats.FormatCSV, "csv or json")

	resultsCmd.AddCommand(resultsExportCmd)
}
