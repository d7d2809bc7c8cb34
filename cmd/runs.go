package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/shelfscout/appraise-cli/internal/model"
	"github.com/shelfscout/appraise-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect appraisal history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past appraisals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		isbn, _ := cmd.Flags().GetString("isbn")
		decisionFlag, _ := cmd.Flags().GetString("decision")
		limit, _ := cmd.Flags().GetInt("limit")

		recs, err := st.ListAppraisals(ctx, store.Filter{
			ISBN:     isbn,
			Decision: model.Decision(decisionFlag),
			Limit:    limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(recs) == 0 {
			fmt.Fprintln(os.Stderr, "No appraisals found.")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "ISBN", "TITLE", "PRICE", "CONF", "DECISION", "PROFILE", "CREATED"})
		for _, rec := range recs {
			title := rec.Title
			if len(title) > 30 {
				title = title[:27] + "..."
			}
			t.AppendRow(table.Row{
				truncateID(rec.ID),
				rec.ISBN,
				title,
				fmt.Sprintf("$%.2f", rec.Price),
				fmt.Sprintf("%.0f", rec.Confidence),
				rec.Decision,
				rec.Profile,
				rec.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		t.Render()
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <appraisal-id>",
	Short: "Show the full stored result of an appraisal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		rec, err := st.GetAppraisal(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	runsListCmd.Flags().String("isbn", "", "filter by ISBN")
	runsListCmd.Flags().String("decision", "", "filter by decision (buy, skip, needs_review)")
	runsListCmd.Flags().Int("limit", 50, "max number of appraisals to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
