package feature

import (
	"github.com/rotisserie/eris"

	"github.com/shelfscout/appraise-cli/internal/model"
)

// Platform subsets are pure projections of the full vector: a fixed,
// platform-declared list of feature names whose ordering must match the
// ordering the specialist model was fit against. No recomputation
// happens here.
var platformSubsets = map[model.Platform][]string{
	model.PlatformAbeBooks: {
		AbeMinPrice, AbeAvgPrice, AbeOfferCount, CrossPlatformRatio, EstEbayPrice,
		PageCount, AgeYears, LogRatings, Rating, HasListPrice, ListPrice,
		IsNew, IsLikeNew, IsVeryGood, IsGood, IsAcceptable, IsPoor,
		IsHardcover, IsPaperback, IsMassMarket,
		IsSigned, IsFirstEdition,
	},
	model.PlatformEbay: {
		EbaySoldCount, EbayActiveCount, EbayActiveMedian, SellThroughRate,
		CrossPlatformRatio, DemandScore, CompetitionRatio, PriceVelocity,
		PageCount, AgeYears, LogRatings, Rating, HasListPrice, ListPrice,
		IsNew, IsLikeNew, IsVeryGood, IsGood, IsAcceptable, IsPoor,
		IsHardcover, IsPaperback, IsMassMarket,
		IsSigned, IsFirstEdition,
	},
	model.PlatformAmazon: {
		LogAmazonRank, AmazonOfferCount, DemandScore,
		PageCount, AgeYears, LogRatings, Rating, HasListPrice, ListPrice,
		IsNew, IsLikeNew, IsVeryGood, IsGood, IsAcceptable, IsPoor,
		IsHardcover, IsPaperback, IsMassMarket,
		IsSigned, IsFirstEdition,
	},
}

// SubsetNames returns the declared feature-name list for a platform.
func SubsetNames(p model.Platform) ([]string, bool) {
	names, ok := platformSubsets[p]
	return names, ok
}

// Subset projects the platform's declared feature subset out of the full
// vector. A schema-version mismatch or unknown platform fails loudly;
// silently misaligned columns are worse than an error.
func Subset(v Vector, p model.Platform) (Vector, error) {
	if v.SchemaVersion != SchemaVersion {
		return Vector{}, eris.Errorf("feature: subset %s: vector schema %q does not match live schema %q",
			p, v.SchemaVersion, SchemaVersion)
	}
	if len(v.Values) != Count() {
		return Vector{}, eris.Errorf("feature: subset %s: vector has %d values, schema defines %d",
			p, len(v.Values), Count())
	}
	names, ok := platformSubsets[p]
	if !ok {
		return Vector{}, eris.Errorf("feature: no subset declared for platform %q", p)
	}

	out := Vector{
		SchemaVersion: v.SchemaVersion,
		Values:        make([]float64, len(names)),
	}
	for i, name := range names {
		idx, ok := Index(name)
		if !ok {
			return Vector{}, eris.Errorf("feature: subset %s references unknown feature %q", p, name)
		}
		out.Values[i] = v.Values[idx]
		if v.IsMissing(name) {
			out.Missing = append(out.Missing, name)
		}
	}
	return out, nil
}
