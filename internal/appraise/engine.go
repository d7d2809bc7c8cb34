// Package appraise orchestrates the inference pipeline: feature
// extraction, model routing, collectible override, and the purchase
// decision, as one synchronous, side-effect-free transformation per
// book. Batch scoring is an embarrassingly parallel map over independent
// records; the engine holds only read-only state loaded at process start
// and is safe for concurrent use.
package appraise

import (
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shelfscout/appraise-cli/internal/collectible"
	"github.com/shelfscout/appraise-cli/internal/decision"
	"github.com/shelfscout/appraise-cli/internal/feature"
	"github.com/shelfscout/appraise-cli/internal/model"
	"github.com/shelfscout/appraise-cli/internal/pricing"
	"github.com/shelfscout/appraise-cli/internal/registry"
)

// Request is one appraisal call: the book, optional acquisition cost and
// buyback offer, and the threshold profile to decide under.
type Request struct {
	Book         model.BookRecord `json:"book"`
	Cost         *float64         `json:"cost,omitempty"`
	BuybackPrice *float64         `json:"buyback_price,omitempty"`
	Profile      decision.Profile `json:"profile"`
}

// Result pairs the prediction with the decision and the liquidity
// signals the decision was based on.
type Result struct {
	Prediction     model.PredictionResult `json:"prediction"`
	Decision       model.DecisionResult   `json:"decision"`
	TimeToSellDays *int                   `json:"time_to_sell_days,omitempty"`
	Rarity         *float64               `json:"rarity,omitempty"`
}

// Engine wires the pipeline stages over read-only dependencies.
type Engine struct {
	router   *pricing.Router
	override *collectible.Engine
	asOf     time.Time
}

// New builds an engine. The registry and router are loaded once by the
// caller and injected; the engine never mutates them.
func New(reg *registry.Registry, router *pricing.Router, highValueMultiplier float64) *Engine {
	return &Engine{
		router:   router,
		override: collectible.New(reg, highValueMultiplier),
		asOf:     time.Now().UTC(),
	}
}

// WithAsOf fixes the as-of date used for age-derived features, for
// reproducible output in tests.
func (e *Engine) WithAsOf(t time.Time) *Engine {
	e.asOf = t
	return e
}

// Appraise runs the full pipeline for one book. The profile is validated
// before any model call. A book with zero snapshots still produces a
// valid result via the unified fallback.
func (e *Engine) Appraise(req Request) (*Result, error) {
	if err := req.Profile.Validate(); err != nil {
		return nil, err
	}
	if req.Book.ISBN == "" && req.Book.Title == "" {
		return nil, eris.New("appraise: book has neither ISBN nor title")
	}

	vec := feature.Extract(&req.Book, e.asOf)

	pred, err := e.router.Predict(&req.Book, vec)
	if err != nil {
		return nil, eris.Wrapf(err, "appraise: predict %s", req.Book.ISBN)
	}

	// Heuristic floor: sparse-data books must not price near zero.
	if floor := pricing.FloorPrice(&req.Book, e.asOf); pred.Price < floor {
		pred.Price = floor
	}

	pred = e.override.Override(&req.Book, pred)

	var rarity *float64
	if r := decision.Rarity(&req.Book); r != nil {
		rounded := math.Round(*r*1000) / 1000
		rarity = &rounded
		pred.Rarity = rounded
	}

	tts := decision.TimeToSell(&req.Book)

	dec, err := decision.Decide(pred, decision.Inputs{
		Cost:           req.Cost,
		BuybackPrice:   req.BuybackPrice,
		TimeToSellDays: tts,
	}, req.Profile)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("appraise: complete",
		zap.String("isbn", req.Book.ISBN),
		zap.Float64("price", pred.Price),
		zap.Float64("confidence", pred.Confidence),
		zap.String("model", pred.ModelID),
		zap.String("decision", string(dec.Decision)),
	)

	return &Result{
		Prediction:     pred,
		Decision:       dec,
		TimeToSellDays: tts,
		Rarity:         rarity,
	}, nil
}
