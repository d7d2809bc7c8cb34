// Package collectible re-prices books that ordinary statistical signals
// systematically misprice: signed or first-edition works by registered
// famous creators. Specialist collectible markets have been observed to
// be underestimated by up to ~100x when priced from mainstream velocity
// signals alone.
package collectible

import (
	"math"

	"go.uber.org/zap"

	"github.com/shelfscout/appraise-cli/internal/model"
	"github.com/shelfscout/appraise-cli/internal/registry"
)

// DefaultHighValueMultiplier is the empirically tuned boundary between
// ordinary and high-value overrides. At or above it the engine raises
// confidence and suppresses the slow-velocity review penalty. Tuned
// against observed override examples; kept configurable for
// recalibration.
const DefaultHighValueMultiplier = 10.0

// highValueConfidence is the confidence floor applied when a high-value
// override fires.
const highValueConfidence = 85.0

// Engine applies the collectible override rules to a base prediction.
type Engine struct {
	reg       *registry.Registry
	highValue float64
}

// New builds an override engine over a read-only registry. A
// non-positive highValue falls back to the default boundary.
func New(reg *registry.Registry, highValue float64) *Engine {
	if highValue <= 0 {
		highValue = DefaultHighValueMultiplier
	}
	return &Engine{reg: reg, highValue: highValue}
}

// rule is one branch of the override decision tree: a predicate plus the
// transform applied when it matches.
type rule struct {
	name    string
	applies func(book *model.BookRecord, entry registry.Entry, found bool) bool
	apply   func(pred model.PredictionResult, entry registry.Entry) model.PredictionResult
}

// rules are evaluated top to bottom with first-match-wins semantics.
var rules = []rule{
	{
		name: "not_collectible",
		applies: func(book *model.BookRecord, _ registry.Entry, found bool) bool {
			return !found || (!book.Signed && !book.FirstEdition)
		},
		apply: func(pred model.PredictionResult, _ registry.Entry) model.PredictionResult {
			return pred
		},
	},
	{
		name: "signed_famous",
		applies: func(book *model.BookRecord, _ registry.Entry, _ bool) bool {
			return book.Signed
		},
		apply: func(pred model.PredictionResult, entry registry.Entry) model.PredictionResult {
			return reprice(pred, entry, model.OverrideSignedFamous, entry.SignedMultiplier)
		},
	},
	{
		name: "first_edition_famous",
		applies: func(book *model.BookRecord, _ registry.Entry, _ bool) bool {
			return book.FirstEdition
		},
		apply: func(pred model.PredictionResult, entry registry.Entry) model.PredictionResult {
			return reprice(pred, entry, model.OverrideFirstEditionFamous, entry.FirstEditionMultiplier())
		},
	},
}

func reprice(pred model.PredictionResult, entry registry.Entry, kind model.OverrideType, mult float64) model.PredictionResult {
	pred.Price = math.Round(pred.Price*mult*100) / 100
	pred.Override = kind
	pred.OverrideMultiplier = mult
	pred.FamousCreator = entry.Name
	pred.FameTier = entry.Tier
	return pred
}

// Override post-processes a base prediction. The creator resolves to at
// most one registry entry (first normalized name that matches); matching
// rules replace the price, and a multiplier at or above the high-value
// boundary additionally raises confidence and flags velocity-penalty
// suppression for the decision policy.
func (e *Engine) Override(book *model.BookRecord, pred model.PredictionResult) model.PredictionResult {
	entry, found := e.reg.Resolve(book.Creators)

	for _, r := range rules {
		if !r.applies(book, entry, found) {
			continue
		}
		out := r.apply(pred, entry)
		if out.Override != model.OverrideNone {
			if out.OverrideMultiplier >= e.highValue {
				out.Confidence = math.Max(out.Confidence, highValueConfidence)
				out.SuppressVelocityPenalty = true
			}
			zap.L().Debug("collectible: override fired",
				zap.String("isbn", book.ISBN),
				zap.String("creator", entry.Name),
				zap.String("type", string(out.Override)),
				zap.Float64("multiplier", out.OverrideMultiplier),
			)
		}
		return out
	}
	return pred
}
