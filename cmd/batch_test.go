package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscout/appraise-cli/internal/appraise"
	"github.com/shelfscout/appraise-cli/internal/decision"
	"github.com/shelfscout/appraise-cli/internal/feature"
	"github.com/shelfscout/appraise-cli/internal/input"
	"github.com/shelfscout/appraise-cli/internal/model"
	"github.com/shelfscout/appraise-cli/internal/pricing"
	"github.com/shelfscout/appraise-cli/internal/registry"
)

func newTestEngine(t *testing.T) *appraise.Engine {
	t.Helper()
	reg, err := registry.New([]registry.Entry{
		{Name: "Frank Herbert", Tier: registry.TierLiteraryIcon, SignedMultiplier: 100},
	})
	require.NoError(t, err)

	n := feature.Count()
	unified := &pricing.Artifact{
		ModelID:       "unified_test",
		SchemaVersion: feature.SchemaVersion,
		Features:      append([]string(nil), feature.Names...),
		Means:         make([]float64, n),
		Stds:          make([]float64, n),
		Weights:       make([]float64, n),
		Intercept:     12,
	}
	for i := range unified.Stds {
		unified.Stds[i] = 1
	}

	router, err := pricing.NewRouterFromArtifacts(nil, unified)
	require.NoError(t, err)
	return appraise.New(reg, router, 0)
}

func floatPtr(v float64) *float64 { return &v }

func TestProcessBatch_IsolatesFailures(t *testing.T) {
	engine := newTestEngine(t)

	items := []input.Item{
		{Book: model.BookRecord{ISBN: "9780441172719", Title: "Dune"}, Cost: floatPtr(2.0)},
		{Book: model.BookRecord{}}, // no identity, fails
		{Book: model.BookRecord{ISBN: "9780553382563", Title: "A Game of Thrones"}, Cost: floatPtr(3.0)},
	}

	rows, err := processBatch(context.Background(), engine, nil, items, decision.Balanced(), 0, 2)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Input order is preserved, and the middle failure did not abort the rest.
	assert.Equal(t, "9780441172719", rows[0].isbn)
	require.NotNil(t, rows[0].result)
	assert.Error(t, rows[1].err)
	assert.Nil(t, rows[1].result)
	require.NotNil(t, rows[2].result)
}

func TestProcessBatch_AppliesLimit(t *testing.T) {
	engine := newTestEngine(t)

	items := make([]input.Item, 5)
	for i := range items {
		items[i] = input.Item{Book: model.BookRecord{ISBN: "x", Title: "y"}}
	}

	rows, err := processBatch(context.Background(), engine, nil, items, decision.Balanced(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestProcessBatch_Empty(t *testing.T) {
	rows, err := processBatch(context.Background(), newTestEngine(t), nil, nil, decision.Balanced(), 0, 2)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestJoinRules(t *testing.T) {
	assert.Equal(t, "", joinRules(nil))
	assert.Equal(t, "auto_buy", joinRules([]string{"auto_buy"}))
	assert.Equal(t, "thin_margin, low_confidence", joinRules([]string{"thin_margin", "low_confidence"}))
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("12345678-abcd"))
	assert.Equal(t, "short", truncateID("short"))
}
