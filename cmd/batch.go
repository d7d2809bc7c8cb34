package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shelfscout/appraise-cli/internal/appraise"
	"github.com/shelfscout/appraise-cli/internal/decision"
	"github.com/shelfscout/appraise-cli/internal/input"
	"github.com/shelfscout/appraise-cli/internal/model"
	"github.com/shelfscout/appraise-cli/internal/store"
)

var (
	batchProfile     string
	batchConcurrency int
	batchLimit       int
	batchSave        bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <input.json|input.xlsx>",
	Short: "Appraise a batch of books concurrently",
	Long:  "Loads books from a JSON array or XLSX scan sheet, scores them concurrently, and prints a summary table. Individual failures never abort the batch.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		items, err := input.Load(args[0])
		if err != nil {
			return err
		}

		profile, err := resolveProfile(batchProfile)
		if err != nil {
			return err
		}

		engine, _, err := initEngine()
		if err != nil {
			return err
		}

		var st store.Store
		if batchSave {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
		}

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		rows, err := processBatch(ctx, engine, st, items, profile, batchLimit, concurrency)
		if err != nil {
			return err
		}

		renderBatchTable(rows)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchProfile, "profile", "", "threshold profile (balanced, conservative, aggressive)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "concurrent appraisals (default from config)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of items to process (0 = all)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist appraisals to the history store")
	rootCmd.AddCommand(batchCmd)
}

// batchRow is one line of the summary table, successful or failed.
type batchRow struct {
	index  int
	isbn   string
	title  string
	result *appraise.Result
	err    error
}

// processBatch scores items concurrently. A failed item is recorded and
// logged, never fatal to the rest of the batch.
func processBatch(ctx context.Context, engine *appraise.Engine, st store.Store, items []input.Item, profile decision.Profile, limit, concurrency int) ([]batchRow, error) {
	if len(items) == 0 {
		zap.L().Info("batch: no items to process")
		return nil, nil
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	zap.L().Info("batch: processing",
		zap.Int("items", len(items)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	var rows []batchRow
	var succeeded, failed atomic.Int64

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			log := zap.L().With(zap.String("isbn", item.Book.ISBN), zap.String("title", item.Book.Title))

			row := batchRow{index: i, isbn: item.Book.ISBN, title: item.Book.Title}
			result, err := engine.Appraise(appraise.Request{
				Book:         item.Book,
				Cost:         item.Cost,
				BuybackPrice: item.BuybackPrice,
				Profile:      profile,
			})
			if err != nil {
				failed.Add(1)
				log.Error("batch: appraisal failed", zap.Error(err))
				row.err = err
			} else {
				succeeded.Add(1)
				row.result = result
				if st != nil {
					if _, sErr := st.SaveAppraisal(gctx, item.Book.ISBN, item.Book.Title, result); sErr != nil {
						log.Warn("batch: failed to persist appraisal", zap.Error(sErr))
					}
				}
			}

			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
			return nil // don't abort batch on individual failure
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	sort.Slice(rows, func(a, b int) bool { return rows[a].index < rows[b].index })

	zap.L().Info("batch: complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return rows, nil
}

// renderBatchTable prints the summary table to stdout.
func renderBatchTable(rows []batchRow) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ISBN", "TITLE", "PRICE", "CONF", "MODEL", "OVERRIDE", "DECISION", "RULES"})

	for _, row := range rows {
		title := row.title
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		if row.err != nil {
			t.AppendRow(table.Row{row.isbn, title, "-", "-", "-", "-", "ERROR", row.err.Error()})
			continue
		}
		pred := row.result.Prediction
		dec := row.result.Decision
		override := ""
		if pred.Override != model.OverrideNone {
			override = fmt.Sprintf("%s x%.1f", pred.Override, pred.OverrideMultiplier)
		}
		t.AppendRow(table.Row{
			row.isbn,
			title,
			fmt.Sprintf("$%.2f", pred.Price),
			fmt.Sprintf("%.0f", pred.Confidence),
			pred.ModelID,
			override,
			dec.Decision,
			joinRules(dec.Rules),
		})
	}
	t.Render()
}

func joinRules(rules []string) string {
	out := ""
	for i, r := range rules {
		if i > 0 {
			out += ", "
		}
		out += r
	}
	return out
}
