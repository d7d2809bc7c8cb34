package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscout/appraise-cli/internal/model"
)

func ptr[T any](v T) *T { return &v }

func confidentPred(price float64) model.PredictionResult {
	return model.PredictionResult{Price: price, Confidence: 75, CompCount: 10}
}

func TestDecide_AutoBuy(t *testing.T) {
	res, err := Decide(confidentPred(20), Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionBuy, res.Decision)
	assert.Equal(t, []string{RuleAutoBuy}, res.Rules)
	require.NotNil(t, res.Margin)
	assert.Equal(t, 18.0, *res.Margin)
	assert.Equal(t, "balanced", res.Inputs.Profile)
}

func TestDecide_SkipThinMargin(t *testing.T) {
	res, err := Decide(confidentPred(5), Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionSkip, res.Decision)
	assert.Equal(t, []string{RuleThinMargin}, res.Rules)
}

func TestDecide_SkipLowConfidence(t *testing.T) {
	pred := confidentPred(20)
	pred.Confidence = 45 // below auto-buy gate, above review threshold
	res, err := Decide(pred, Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionSkip, res.Decision)
	assert.Equal(t, []string{RuleLowConfidence}, res.Rules)
}

func TestDecide_SkipMissingCost_WhenConfident(t *testing.T) {
	// Confidence clears the auto-buy gate so no-profit-data review does
	// not fire, but Buy still requires a margin check.
	res, err := Decide(confidentPred(20), Inputs{TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionSkip, res.Decision)
	assert.Equal(t, []string{RuleMissingCost}, res.Rules)
	assert.Nil(t, res.Margin)
}

func TestDecide_ReviewInsufficientComps(t *testing.T) {
	pred := confidentPred(20)
	pred.CompCount = 1
	res, err := Decide(pred, Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionNeedsReview, res.Decision)
	assert.Contains(t, res.Rules, RuleInsufficientComps)
}

func TestDecide_ReviewConflictingSignals(t *testing.T) {
	// Marketplace says loss, buyback says solid profit.
	pred := confidentPred(3)
	res, err := Decide(pred, Inputs{Cost: ptr(5.0), BuybackPrice: ptr(15.0), TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionNeedsReview, res.Decision)
	assert.Contains(t, res.Rules, RuleConflictingSignals)
}

func TestDecide_ReviewSlowVelocityThinMargin(t *testing.T) {
	res, err := Decide(confidentPred(8), Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(300)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionNeedsReview, res.Decision)
	assert.Contains(t, res.Rules, RuleSlowVelocityThinMargin)
}

func TestDecide_VelocityPenaltySuppressed(t *testing.T) {
	// Same slow-and-thin shape, but a high-value collectible override
	// bypasses the review and records why.
	pred := confidentPred(8)
	pred.SuppressVelocityPenalty = true
	res, err := Decide(pred, Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(300)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionBuy, res.Decision)
	assert.Contains(t, res.Rules, RuleVelocitySuppressed)
	assert.Contains(t, res.Rules, RuleAutoBuy)
}

func TestDecide_ReviewLowConfidenceThinMargin(t *testing.T) {
	pred := confidentPred(4)
	pred.Confidence = 20
	res, err := Decide(pred, Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionNeedsReview, res.Decision)
	assert.Contains(t, res.Rules, RuleLowConfidenceThinMargin)
}

func TestDecide_ReviewNoProfitData(t *testing.T) {
	pred := confidentPred(20)
	pred.Confidence = 40 // below the auto-buy gate
	res, err := Decide(pred, Inputs{TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionNeedsReview, res.Decision)
	assert.Contains(t, res.Rules, RuleNoProfitData)
}

func TestDecide_MultipleReviewRulesAccumulate(t *testing.T) {
	pred := confidentPred(4)
	pred.Confidence = 20
	pred.CompCount = 1
	res, err := Decide(pred, Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(300)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionNeedsReview, res.Decision)
	assert.Equal(t, []string{RuleInsufficientComps, RuleSlowVelocityThinMargin, RuleLowConfidenceThinMargin}, res.Rules)
}

func TestDecide_InvalidProfileRejected(t *testing.T) {
	bad := Balanced()
	bad.MinProfitAutoBuy = -1
	_, err := Decide(confidentPred(20), Inputs{Cost: ptr(2.0)}, bad)
	var invalid *InvalidProfileError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "min_profit_auto_buy", invalid.Field)
}

func TestDecide_ProfileStrictness(t *testing.T) {
	// A margin Aggressive accepts, Conservative rejects.
	pred := confidentPred(6)
	pred.Confidence = 65

	res, err := Decide(pred, Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(30)}, Aggressive())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionBuy, res.Decision)

	res, err = Decide(pred, Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(30)}, Conservative())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionSkip, res.Decision)

	res, err = Decide(pred, Inputs{Cost: ptr(2.0), TimeToSellDays: ptr(30)}, Balanced())
	require.NoError(t, err)
	assert.Equal(t, model.DecisionSkip, res.Decision)
}
