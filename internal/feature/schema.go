// Package feature converts raw book records into fixed-length numeric
// feature vectors. A single shared schema fixes slot count and ordering
// for the extractor, every platform subset, and the unified model; any
// schema change must bump SchemaVersion and re-derive all consumers in
// lockstep.
package feature

// SchemaVersion identifies the live feature schema. Model artifacts carry
// the version they were fit against; a mismatch is rejected, never
// silently tolerated.
const SchemaVersion = "v3"

// Feature names in schema order. Ordering is load-bearing: models are fit
// against column positions, not names.
const (
	// Market signals.
	LogAmazonRank    = "log_amazon_rank"
	AmazonOfferCount = "amazon_offer_count"
	EbaySoldCount    = "ebay_sold_count"
	EbayActiveCount  = "ebay_active_count"
	EbayActiveMedian = "ebay_active_median"
	SellThroughRate  = "sell_through_rate"
	AbeMinPrice      = "abebooks_min_price"
	AbeAvgPrice      = "abebooks_avg_price"
	AbeOfferCount    = "abebooks_offer_count"
	CrossPlatformRatio = "cross_platform_ratio"
	EstEbayPrice     = "est_ebay_price"

	// Book attributes.
	PageCount    = "page_count"
	AgeYears     = "age_years"
	LogRatings   = "log_ratings"
	Rating       = "rating"
	HasListPrice = "has_list_price"
	ListPrice    = "list_price"

	// Condition one-hots.
	IsNew        = "is_new"
	IsLikeNew    = "is_like_new"
	IsVeryGood   = "is_very_good"
	IsGood       = "is_good"
	IsAcceptable = "is_acceptable"
	IsPoor       = "is_poor"

	// Physical format one-hots.
	IsHardcover  = "is_hardcover"
	IsPaperback  = "is_paperback"
	IsMassMarket = "is_mass_market"

	// Collectible input flags. These are raw inputs; fame-aware override
	// logic lives downstream.
	IsSigned       = "is_signed"
	IsFirstEdition = "is_first_edition"

	// Category flags.
	IsTextbook = "is_textbook"
	IsFiction  = "is_fiction"

	// Derived signals.
	DemandScore      = "demand_score"
	CompetitionRatio = "competition_ratio"
	PriceVelocity    = "price_velocity"
)

// Names lists every feature in schema order.
var Names = []string{
	LogAmazonRank,
	AmazonOfferCount,
	EbaySoldCount,
	EbayActiveCount,
	EbayActiveMedian,
	SellThroughRate,
	AbeMinPrice,
	AbeAvgPrice,
	AbeOfferCount,
	CrossPlatformRatio,
	EstEbayPrice,
	PageCount,
	AgeYears,
	LogRatings,
	Rating,
	HasListPrice,
	ListPrice,
	IsNew,
	IsLikeNew,
	IsVeryGood,
	IsGood,
	IsAcceptable,
	IsPoor,
	IsHardcover,
	IsPaperback,
	IsMassMarket,
	IsSigned,
	IsFirstEdition,
	IsTextbook,
	IsFiction,
	DemandScore,
	CompetitionRatio,
	PriceVelocity,
}

var indexByName = func() map[string]int {
	m := make(map[string]int, len(Names))
	for i, n := range Names {
		m[n] = i
	}
	return m
}()

// Index returns the schema position of a feature name.
func Index(name string) (int, bool) {
	i, ok := indexByName[name]
	return i, ok
}

// Count is the fixed vector length.
func Count() int { return len(Names) }
