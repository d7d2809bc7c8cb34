package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/shelfscout/appraise-cli/internal/appraise"
	"github.com/shelfscout/appraise-cli/internal/model"
)

var (
	appraiseCost    float64
	appraiseBuyback float64
	appraiseProfile string
	appraiseSave    bool
)

var appraiseCmd = &cobra.Command{
	Use:   "appraise [book.json]",
	Short: "Appraise a single book",
	Long:  "Reads a book record as JSON from a file or stdin and prints the prediction and decision.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		book, err := readBook(args)
		if err != nil {
			return err
		}

		profile, err := resolveProfile(appraiseProfile)
		if err != nil {
			return err
		}

		engine, _, err := initEngine()
		if err != nil {
			return err
		}

		req := appraise.Request{Book: *book, Profile: profile}
		if cmd.Flags().Changed("cost") {
			req.Cost = &appraiseCost
		}
		if cmd.Flags().Changed("buyback") {
			req.BuybackPrice = &appraiseBuyback
		}

		result, err := engine.Appraise(req)
		if err != nil {
			return err
		}

		if appraiseSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			if _, err := st.SaveAppraisal(ctx, book.ISBN, book.Title, result); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	appraiseCmd.Flags().Float64Var(&appraiseCost, "cost", 0, "acquisition cost in dollars")
	appraiseCmd.Flags().Float64Var(&appraiseBuyback, "buyback", 0, "buyback offer in dollars")
	appraiseCmd.Flags().StringVar(&appraiseProfile, "profile", "", "threshold profile (balanced, conservative, aggressive)")
	appraiseCmd.Flags().BoolVar(&appraiseSave, "save", false, "persist the appraisal to the history store")
	rootCmd.AddCommand(appraiseCmd)
}

// readBook decodes a book record from the named file, or stdin when no
// argument is given.
func readBook(args []string) (*model.BookRecord, error) {
	var r io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", args[0])
		}
		defer f.Close()
		r = f
	}

	var book model.BookRecord
	if err := json.NewDecoder(r).Decode(&book); err != nil {
		return nil, eris.Wrap(err, "decode book record")
	}
	return &book, nil
}
