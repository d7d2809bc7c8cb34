package pricing

import (
	"math"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shelfscout/appraise-cli/internal/feature"
	"github.com/shelfscout/appraise-cli/internal/model"
)

// Artifact file names under the models directory.
const (
	unifiedArtifactFile = "unified.yaml"
)

var specialistArtifactFiles = map[model.Platform]string{
	model.PlatformAbeBooks: "abebooks_specialist.yaml",
	model.PlatformEbay:     "ebay_specialist.yaml",
	model.PlatformAmazon:   "amazon_specialist.yaml",
}

// specialistPriority is the declared routing order when multiple
// specialists are eligible. It reflects each specialist's measured error
// rate and is a configuration constant, never inferred at runtime.
var specialistPriority = []model.Platform{
	model.PlatformAbeBooks,
	model.PlatformEbay,
	model.PlatformAmazon,
}

// route pairs a specialist's eligibility precondition with its model
// handle. Routing evaluates routes in priority order, so adding a
// specialist means adding a route, not another branch.
type route struct {
	platform model.Platform
	eligible func(*model.BookRecord) bool
	model    *LinearModel // nil when the artifact failed to load
}

// eligibility preconditions: a specialist may only run when its required
// raw signal is present on the record.
var eligibility = map[model.Platform]func(*model.BookRecord) bool{
	model.PlatformAbeBooks: func(b *model.BookRecord) bool {
		snap, ok := b.Snapshot(model.PlatformAbeBooks)
		return ok && snap.AvgPrice > 0
	},
	model.PlatformEbay: func(b *model.BookRecord) bool {
		snap, ok := b.Snapshot(model.PlatformEbay)
		return ok && (snap.SoldCount > 0 || snap.OfferCount > 0)
	},
	model.PlatformAmazon: func(b *model.BookRecord) bool {
		snap, ok := b.Snapshot(model.PlatformAmazon)
		return ok && snap.SalesRank > 0
	},
}

// Router picks the best available model for each book: the
// highest-priority eligible specialist, falling back to the unified
// model. Safe for concurrent use once constructed.
type Router struct {
	routes  []route
	unified *LinearModel
}

// NewRouter loads model artifacts from dir. A missing or invalid
// specialist artifact is recoverable (logged, route skipped); a missing
// unified artifact is fatal, surfaced as ErrUnifiedModelUnavailable.
func NewRouter(dir string) (*Router, error) {
	unifiedArt, err := LoadArtifact(filepath.Join(dir, unifiedArtifactFile))
	if err != nil {
		return nil, eris.Wrap(ErrUnifiedModelUnavailable, err.Error())
	}
	if unifiedArt.Platform != "" {
		return nil, eris.Wrap(ErrUnifiedModelUnavailable, "unified artifact declares a platform")
	}

	r := &Router{unified: NewLinearModel(unifiedArt)}
	for _, platform := range specialistPriority {
		rt := route{platform: platform, eligible: eligibility[platform]}
		path := filepath.Join(dir, specialistArtifactFiles[platform])
		art, err := LoadArtifact(path)
		switch {
		case err == nil && art.Platform == platform:
			rt.model = NewLinearModel(art)
		case err == nil:
			zap.L().Warn("pricing: specialist artifact targets wrong platform, skipping",
				zap.String("path", path),
				zap.String("declared", string(art.Platform)),
			)
		case os.IsNotExist(eris.Cause(err)):
			zap.L().Info("pricing: no specialist artifact, will fall back",
				zap.String("platform", string(platform)),
			)
		default:
			zap.L().Warn("pricing: specialist artifact unusable, will fall back",
				zap.String("platform", string(platform)),
				zap.Error(&ModelUnavailableError{ModelID: specialistArtifactFiles[platform], Err: err}),
			)
		}
		r.routes = append(r.routes, rt)
	}
	return r, nil
}

// NewRouterFromArtifacts builds a router from in-memory artifacts,
// preserving the declared priority order. The unified artifact is
// required.
func NewRouterFromArtifacts(specialists []*Artifact, unified *Artifact) (*Router, error) {
	if unified == nil {
		return nil, ErrUnifiedModelUnavailable
	}
	if err := unified.Validate(); err != nil {
		return nil, eris.Wrap(ErrUnifiedModelUnavailable, err.Error())
	}
	byPlatform := make(map[model.Platform]*Artifact, len(specialists))
	for _, art := range specialists {
		if err := art.Validate(); err != nil {
			return nil, err
		}
		byPlatform[art.Platform] = art
	}

	r := &Router{unified: NewLinearModel(unified)}
	for _, platform := range specialistPriority {
		rt := route{platform: platform, eligible: eligibility[platform]}
		if art, ok := byPlatform[platform]; ok {
			rt.model = NewLinearModel(art)
		}
		r.routes = append(r.routes, rt)
	}
	return r, nil
}

// Predict routes the book to the highest-priority eligible specialist,
// falling back to the unified model. Specialist failures are recovered
// locally; only a unified-model failure propagates.
func (r *Router) Predict(book *model.BookRecord, vec feature.Vector) (model.PredictionResult, error) {
	for _, rt := range r.routes {
		if rt.model == nil || !rt.eligible(book) {
			continue
		}
		sub, err := feature.Subset(vec, rt.platform)
		if err != nil {
			zap.L().Warn("pricing: subset failed, trying next route",
				zap.String("platform", string(rt.platform)),
				zap.Error(err),
			)
			continue
		}
		price, err := rt.model.Predict(sub)
		if err != nil {
			zap.L().Warn("pricing: specialist failed, trying next route",
				zap.String("model", rt.model.ModelID()),
				zap.Error(err),
			)
			continue
		}
		return r.result(book, vec, price, rt.model.ModelID(), true), nil
	}

	if r.unified == nil {
		return model.PredictionResult{}, ErrUnifiedModelUnavailable
	}
	price, err := r.unified.Predict(vec)
	if err != nil {
		// The unified model has no fallback behind it; refusing to guess
		// beats silently misvaluing.
		return model.PredictionResult{}, err
	}
	return r.result(book, vec, price, r.unified.ModelID(), false), nil
}

func (r *Router) result(book *model.BookRecord, vec feature.Vector, price float64, modelID string, specialist bool) model.PredictionResult {
	return model.PredictionResult{
		Price:      math.Round(price*100) / 100,
		Confidence: confidence(book, vec, specialist),
		ModelID:    modelID,
		Override:   model.OverrideNone,
		CompCount:  book.TotalComps(),
	}
}
