package feature

import (
	"math"
	"strings"
	"time"

	"github.com/shelfscout/appraise-cli/internal/model"
)

// Slot defaults for absent signals.
const (
	defaultAmazonRank = 1_000_000 // very slow mover
	defaultPageCount  = 300       // catalog median
	defaultAgeYears   = 5
)

// Keyword sets for the category flags.
var (
	textbookKeywords = []string{
		"business", "finance", "medical", "nursing", "law", "science",
		"technology", "computer", "engineering", "mathematics",
	}
	fictionKeywords = []string{
		"fiction", "novel", "mystery", "thriller", "romance", "fantasy",
	}
)

// abebooksToEbayUplift is the empirically-fit base multiplier for
// projecting an AbeBooks average onto the eBay price scale.
const abebooksToEbayUplift = 1.15

// Extract builds the full feature vector for a book. Identical input
// yields a bit-identical vector: no randomness, and the only
// time-dependent slot (age in years) uses the caller-supplied as-of date.
func Extract(book *model.BookRecord, asOf time.Time) Vector {
	b := newBuilder()

	amazon, hasAmazon := book.Snapshot(model.PlatformAmazon)
	ebay, hasEbay := book.Snapshot(model.PlatformEbay)
	abe, hasAbe := book.Snapshot(model.PlatformAbeBooks)

	// Market signals.
	if hasAmazon && amazon.SalesRank > 0 {
		b.observe(LogAmazonRank, math.Log1p(float64(amazon.SalesRank)))
	} else {
		b.impute(LogAmazonRank, math.Log1p(defaultAmazonRank))
	}
	if hasAmazon && amazon.OfferCount > 0 {
		b.observe(AmazonOfferCount, float64(amazon.OfferCount))
	} else {
		b.impute(AmazonOfferCount, 0)
	}

	if hasEbay {
		b.observeIf(EbaySoldCount, float64(ebay.SoldCount), ebay.SoldCount > 0)
		b.observeIf(EbayActiveCount, float64(ebay.OfferCount), ebay.OfferCount > 0)
		b.observeIf(EbayActiveMedian, ebay.MedianPrice, ebay.MedianPrice > 0)
		b.observeIf(SellThroughRate, ebay.SellThroughRate, ebay.SellThroughRate > 0)
	} else {
		b.impute(EbaySoldCount, 0)
		b.impute(EbayActiveCount, 0)
		b.impute(EbayActiveMedian, 0)
		b.impute(SellThroughRate, 0)
	}

	if hasAbe {
		b.observeIf(AbeMinPrice, abe.MinPrice, abe.MinPrice > 0)
		b.observeIf(AbeAvgPrice, abe.AvgPrice, abe.AvgPrice > 0)
		b.observeIf(AbeOfferCount, float64(abe.OfferCount), abe.OfferCount > 0)
	} else {
		b.impute(AbeMinPrice, 0)
		b.impute(AbeAvgPrice, 0)
		b.impute(AbeOfferCount, 0)
	}

	if hasEbay && hasAbe && ebay.MedianPrice > 0 && abe.AvgPrice > 0 {
		b.observe(CrossPlatformRatio, ebay.MedianPrice/abe.AvgPrice)
	} else {
		b.impute(CrossPlatformRatio, 1)
	}

	// Derived cross-platform price estimate, computed here so every
	// consuming model sees the same signal.
	if hasAbe && abe.AvgPrice > 0 {
		b.observe(EstEbayPrice, estimateEbayPrice(abe, book.Binding))
	} else {
		b.impute(EstEbayPrice, 0)
	}

	// Book attributes.
	if book.PageCount > 0 {
		b.observe(PageCount, float64(book.PageCount))
	} else {
		b.impute(PageCount, defaultPageCount)
	}
	if book.PublishedYear > 0 {
		age := asOf.Year() - book.PublishedYear
		if age < 0 {
			age = 0
		}
		b.observe(AgeYears, float64(age))
	} else {
		b.impute(AgeYears, defaultAgeYears)
	}
	if book.RatingsCount > 0 {
		b.observe(LogRatings, math.Log1p(float64(book.RatingsCount)))
	} else {
		b.impute(LogRatings, 0)
	}
	b.observeIf(Rating, book.AverageRating, book.AverageRating > 0)
	if book.ListPrice > 0 {
		b.observe(HasListPrice, 1)
		b.observe(ListPrice, book.ListPrice)
	} else {
		b.observe(HasListPrice, 0)
		b.impute(ListPrice, 0)
	}

	// Condition one-hots. A record always carries a grade (Good if the
	// scanner left it blank), so these are observed, never imputed.
	cond := book.Condition
	if cond == "" {
		cond = model.ConditionGood
	}
	b.observe(IsNew, oneHot(cond == model.ConditionNew))
	b.observe(IsLikeNew, oneHot(cond == model.ConditionLikeNew))
	b.observe(IsVeryGood, oneHot(cond == model.ConditionVeryGood))
	b.observe(IsGood, oneHot(cond == model.ConditionGood))
	b.observe(IsAcceptable, oneHot(cond == model.ConditionAcceptable))
	b.observe(IsPoor, oneHot(cond == model.ConditionPoor))

	// Format one-hots.
	binding := strings.ToLower(book.Binding)
	switch {
	case strings.Contains(binding, "mass"):
		b.observe(IsHardcover, 0)
		b.observe(IsPaperback, 0)
		b.observe(IsMassMarket, 1)
	case strings.Contains(binding, "hard"):
		b.observe(IsHardcover, 1)
		b.observe(IsPaperback, 0)
		b.observe(IsMassMarket, 0)
	case strings.Contains(binding, "paper"), strings.Contains(binding, "soft"):
		b.observe(IsHardcover, 0)
		b.observe(IsPaperback, 1)
		b.observe(IsMassMarket, 0)
	default:
		b.impute(IsHardcover, 0)
		b.impute(IsPaperback, 0)
		b.impute(IsMassMarket, 0)
	}

	// Collectible input flags.
	b.observe(IsSigned, oneHot(book.Signed))
	b.observe(IsFirstEdition, oneHot(book.FirstEdition))

	// Category flags.
	if len(book.Categories) > 0 {
		b.observe(IsTextbook, oneHot(matchesAny(book.Categories, textbookKeywords)))
		b.observe(IsFiction, oneHot(matchesAny(book.Categories, fictionKeywords)))
	} else {
		b.impute(IsTextbook, 0)
		b.impute(IsFiction, 0)
	}

	// Derived signals.
	logRank := b.values[LogAmazonRank]
	sold := b.values[EbaySoldCount]
	active := b.values[EbayActiveCount]
	if sold > 0 && logRank > 0 {
		b.observe(DemandScore, sold/math.Max(1, logRank))
	} else {
		b.impute(DemandScore, 0)
	}
	if sold > 0 {
		b.observe(CompetitionRatio, active/sold)
	} else if active > 0 {
		// All supply, no demand.
		b.observe(CompetitionRatio, active)
	} else {
		b.impute(CompetitionRatio, 0)
	}
	if hasEbay && ebay.MedianPrice > 0 && ebay.SoldAvgPrice > 0 {
		b.observe(PriceVelocity, (ebay.MedianPrice-ebay.SoldAvgPrice)/math.Max(1, ebay.SoldAvgPrice))
	} else {
		b.impute(PriceVelocity, 0)
	}

	return b.vector()
}

// estimateEbayPrice projects an AbeBooks average onto the eBay scale
// using empirically-fit competition and binding-tier multipliers.
func estimateEbayPrice(abe model.MarketSnapshot, binding string) float64 {
	est := abe.AvgPrice * abebooksToEbayUplift

	switch {
	case abe.OfferCount > 0 && abe.OfferCount <= 3:
		est *= 1.20 // tight supply
	case abe.OfferCount > 10:
		est *= 0.85 // crowded listing
	}

	lower := strings.ToLower(binding)
	switch {
	case strings.Contains(lower, "mass"):
		est *= 0.85
	case strings.Contains(lower, "hard"):
		est *= 1.10
	}
	return est
}

func matchesAny(categories, keywords []string) bool {
	for _, cat := range categories {
		lower := strings.ToLower(cat)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func oneHot(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// builder accumulates named slot values and their observed/imputed
// status, then lays them out in schema order.
type builder struct {
	values  map[string]float64
	missing map[string]bool
}

func newBuilder() *builder {
	return &builder{
		values:  make(map[string]float64, Count()),
		missing: make(map[string]bool, Count()),
	}
}

func (b *builder) observe(name string, v float64) {
	b.values[name] = v
}

func (b *builder) impute(name string, def float64) {
	b.values[name] = def
	b.missing[name] = true
}

func (b *builder) observeIf(name string, v float64, observed bool) {
	if observed {
		b.observe(name, v)
	} else {
		b.impute(name, 0)
	}
}

func (b *builder) vector() Vector {
	vec := Vector{
		SchemaVersion: SchemaVersion,
		Values:        make([]float64, Count()),
	}
	for i, name := range Names {
		vec.Values[i] = b.values[name]
		if b.missing[name] {
			vec.Missing = append(vec.Missing, name)
		}
	}
	return vec
}
