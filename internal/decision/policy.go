package decision

import (
	"github.com/shelfscout/appraise-cli/internal/model"
)

// Rule names carried on every DecisionResult, in the order they fired.
// The rationale is reproducible and testable independent of the final
// state.
const (
	RuleInsufficientComps       = "insufficient_comps"
	RuleConflictingSignals      = "conflicting_signals"
	RuleSlowVelocityThinMargin  = "slow_velocity_thin_margin"
	RuleVelocitySuppressed      = "velocity_penalty_suppressed"
	RuleLowConfidenceThinMargin = "low_confidence_thin_margin"
	RuleNoProfitData            = "no_profit_data"
	RuleAutoBuy                 = "auto_buy"
	RuleThinMargin              = "thin_margin"
	RuleLowConfidence           = "low_confidence"
	RuleMissingCost             = "missing_cost"
)

// Inputs are the per-call signals the policy combines with the
// prediction: acquisition cost, an optional secondary buyback offer, and
// the liquidity estimate. Nil means "signal absent", a first-class state.
type Inputs struct {
	Cost           *float64
	BuybackPrice   *float64
	TimeToSellDays *int
}

// Decide evaluates the three-state policy. NeedsReview is a terminal
// state meaning "a human must judge this", not an error fallback. The
// profile is validated before anything else; an invalid profile is
// rejected outright.
func Decide(pred model.PredictionResult, in Inputs, profile Profile) (model.DecisionResult, error) {
	if err := profile.Validate(); err != nil {
		return model.DecisionResult{}, err
	}

	var margin *float64
	if in.Cost != nil {
		m := pred.Price - *in.Cost
		margin = &m
	}
	var buybackProfit *float64
	if in.BuybackPrice != nil && in.Cost != nil {
		p := *in.BuybackPrice - *in.Cost
		buybackProfit = &p
	}

	result := model.DecisionResult{
		Margin: margin,
		Inputs: model.DecisionInputs{
			Price:          pred.Price,
			Confidence:     pred.Confidence,
			Cost:           in.Cost,
			BuybackPrice:   in.BuybackPrice,
			CompCount:      pred.CompCount,
			TimeToSellDays: in.TimeToSellDays,
			Profile:        profile.Name,
		},
	}

	review := false
	fire := func(rule string) {
		result.Rules = append(result.Rules, rule)
		review = true
	}

	// Review trigger: evidence base below the profile's minimum.
	if pred.CompCount < profile.MinCompsRequired {
		fire(RuleInsufficientComps)
	}

	// Review trigger: a profitable buyback offer alongside a predicted
	// marketplace loss means the signals disagree about this book.
	if buybackProfit != nil && margin != nil &&
		*buybackProfit > profile.MinProfitAutoBuy && *margin < 0 {
		fire(RuleConflictingSignals)
	}

	// Review trigger: slow mover with a thin margin. Bypassed under a
	// high-value collectible override -- slow velocity is expected and
	// acceptable for niche collectibles.
	if in.TimeToSellDays != nil && margin != nil &&
		*in.TimeToSellDays > profile.MaxSlowMovingTTS && *margin < profile.MinProfitSlowMoving {
		if pred.SuppressVelocityPenalty {
			result.Rules = append(result.Rules, RuleVelocitySuppressed)
		} else {
			fire(RuleSlowVelocityThinMargin)
		}
	}

	// Review trigger: low confidence and not enough margin to absorb the
	// uncertainty.
	if pred.Confidence < profile.LowConfidenceThreshold && margin != nil &&
		*margin < profile.MinProfitUncertainty {
		fire(RuleLowConfidenceThinMargin)
	}

	// Review trigger: no cost data to judge profit by, and confidence
	// alone is not persuasive.
	if profile.RequireProfitData && margin == nil &&
		pred.Confidence < profile.MinConfidenceAutoBuy {
		fire(RuleNoProfitData)
	}

	if review {
		result.Decision = model.DecisionNeedsReview
		return result, nil
	}

	switch {
	case margin == nil:
		// Buy requires a margin check; without cost data the safe
		// non-review terminal is Skip.
		result.Decision = model.DecisionSkip
		result.Rules = append(result.Rules, RuleMissingCost)
	case *margin >= profile.MinProfitAutoBuy && pred.Confidence >= profile.MinConfidenceAutoBuy:
		result.Decision = model.DecisionBuy
		result.Rules = append(result.Rules, RuleAutoBuy)
	default:
		result.Decision = model.DecisionSkip
		if *margin < profile.MinProfitAutoBuy {
			result.Rules = append(result.Rules, RuleThinMargin)
		}
		if pred.Confidence < profile.MinConfidenceAutoBuy {
			result.Rules = append(result.Rules, RuleLowConfidence)
		}
	}
	return result, nil
}
