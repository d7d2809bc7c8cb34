package appraise

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscout/appraise-cli/internal/decision"
	"github.com/shelfscout/appraise-cli/internal/feature"
	"github.com/shelfscout/appraise-cli/internal/model"
	"github.com/shelfscout/appraise-cli/internal/pricing"
	"github.com/shelfscout/appraise-cli/internal/registry"
)

var asOf = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// constArtifact always predicts its intercept.
func constArtifact(modelID string, platform model.Platform, intercept float64) *pricing.Artifact {
	var names []string
	if platform == "" {
		names = feature.Names
	} else {
		names, _ = feature.SubsetNames(platform)
	}
	n := len(names)
	a := &pricing.Artifact{
		ModelID:       modelID,
		SchemaVersion: feature.SchemaVersion,
		Platform:      platform,
		Features:      append([]string(nil), names...),
		Means:         make([]float64, n),
		Stds:          make([]float64, n),
		Weights:       make([]float64, n),
		Intercept:     intercept,
	}
	for i := range a.Stds {
		a.Stds[i] = 1
	}
	return a
}

func testEngine(t *testing.T, unifiedPrice float64, specialists ...*pricing.Artifact) *Engine {
	t.Helper()
	reg, err := registry.New([]registry.Entry{
		{Name: "Frank Herbert", Tier: registry.TierLiteraryIcon, SignedMultiplier: 100},
		{Name: "Stephen King", Tier: registry.TierBestsellingAuthor, SignedMultiplier: 25},
	})
	require.NoError(t, err)

	router, err := pricing.NewRouterFromArtifacts(specialists, constArtifact("unified_test", "", unifiedPrice))
	require.NoError(t, err)

	return New(reg, router, 0).WithAsOf(asOf)
}

func liquidBook() model.BookRecord {
	return model.BookRecord{
		ISBN:     "9780441172719",
		Title:    "Dune",
		Creators: []string{"Herbert, Frank"},
		Snapshots: map[model.Platform]model.MarketSnapshot{
			model.PlatformEbay: {
				Platform: model.PlatformEbay, SoldCount: 12, OfferCount: 6, UnsoldCount: 2,
				MedianPrice: 11.50, SoldAvgPrice: 10.80, SellThroughRate: 0.6,
			},
		},
	}
}

func TestAppraise_SignedHighValueCollectible(t *testing.T) {
	eng := testEngine(t, 5, constArtifact("ebay_test", model.PlatformEbay, 11.20))

	res, err := eng.Appraise(Request{
		Book:    func() model.BookRecord { b := liquidBook(); b.Signed = true; return b }(),
		Cost:    ptr(2.0),
		Profile: decision.Balanced(),
	})
	require.NoError(t, err)

	// Specialist base 11.20, repriced 100x.
	pred := res.Prediction
	assert.Equal(t, "ebay_test", pred.ModelID)
	assert.Equal(t, model.OverrideSignedFamous, pred.Override)
	assert.Equal(t, 1120.00, pred.Price)
	assert.Equal(t, "Frank Herbert", pred.FamousCreator)
	assert.GreaterOrEqual(t, pred.Confidence, 85.0)
	assert.True(t, pred.SuppressVelocityPenalty)

	assert.Equal(t, model.DecisionBuy, res.Decision.Decision)
	require.NotNil(t, res.Decision.Margin)
	assert.Equal(t, 1118.00, *res.Decision.Margin)

	// Liquidity signals from the eBay snapshot.
	require.NotNil(t, res.TimeToSellDays)
	assert.Equal(t, 7, *res.TimeToSellDays)
	require.NotNil(t, res.Rarity)
	assert.InDelta(t, 0.111, *res.Rarity, 1e-9)
	// The prediction and the result carry the same rounded value.
	assert.Equal(t, pred.Rarity, *res.Rarity)
}

func TestAppraise_NoSnapshotsFallsBackToUnified(t *testing.T) {
	eng := testEngine(t, 9, constArtifact("ebay_test", model.PlatformEbay, 20))

	res, err := eng.Appraise(Request{
		Book:    model.BookRecord{ISBN: "9780000000000", Title: "Obscure"},
		Cost:    ptr(1.0),
		Profile: decision.Balanced(),
	})
	require.NoError(t, err)

	assert.Equal(t, "unified_test", res.Prediction.ModelID)
	assert.Equal(t, 0, res.Prediction.CompCount)

	// Zero comps trips the evidence gate.
	assert.Equal(t, model.DecisionNeedsReview, res.Decision.Decision)
	assert.Contains(t, res.Decision.Rules, "insufficient_comps")
	assert.Nil(t, res.TimeToSellDays)
	assert.Nil(t, res.Rarity)
}

func TestAppraise_FloorPriceAppliedToSparseBooks(t *testing.T) {
	// Unified predicts below the heuristic floor for a recent book.
	eng := testEngine(t, 0.5)

	res, err := eng.Appraise(Request{
		Book:    model.BookRecord{ISBN: "x", Title: "Recent", PublishedYear: asOf.Year() - 1},
		Profile: decision.Balanced(),
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.Prediction.Price)
}

func TestAppraise_RejectsInvalidInput(t *testing.T) {
	eng := testEngine(t, 10)

	_, err := eng.Appraise(Request{Profile: decision.Balanced()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither ISBN nor title")

	bad := decision.Balanced()
	bad.MinProfitAutoBuy = -1
	_, err = eng.Appraise(Request{
		Book:    model.BookRecord{ISBN: "x", Title: "y"},
		Profile: bad,
	})
	var invalid *decision.InvalidProfileError
	require.ErrorAs(t, err, &invalid)
}

func TestAppraise_UnsignedFamousIsOrdinary(t *testing.T) {
	eng := testEngine(t, 5, constArtifact("ebay_test", model.PlatformEbay, 11.20))

	res, err := eng.Appraise(Request{
		Book:    liquidBook(),
		Cost:    ptr(2.0),
		Profile: decision.Balanced(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.OverrideNone, res.Prediction.Override)
	assert.Equal(t, 11.20, res.Prediction.Price)
}
