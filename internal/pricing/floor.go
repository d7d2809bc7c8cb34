package pricing

import (
	"math"
	"time"

	"github.com/shelfscout/appraise-cli/internal/model"
)

// absoluteFloor is the lowest estimate the engine will report for any
// sellable book.
const absoluteFloor = 3.0

// conditionWeights scale the heuristic baseline by physical grade.
var conditionWeights = map[model.Condition]float64{
	model.ConditionNew:        1.25,
	model.ConditionLikeNew:    1.15,
	model.ConditionVeryGood:   1.05,
	model.ConditionGood:       0.95,
	model.ConditionAcceptable: 0.8,
	model.ConditionPoor:       0.6,
}

// ConditionWeight returns the grade multiplier for a condition, 0.95 for
// an unrecognized grade, and 1.0 when no grade was recorded.
func ConditionWeight(cond model.Condition) float64 {
	if cond == "" {
		return 1.0
	}
	if w, ok := conditionWeights[cond]; ok {
		return w
	}
	return 0.95
}

// FloorPrice is a metadata-driven heuristic baseline, used to floor model
// output so a book with sparse market data never prices near zero. It
// mirrors the catalog-era estimator: page count, recency, reader
// engagement, and list price each nudge a small base upward, and the
// physical grade scales the result.
func FloorPrice(book *model.BookRecord, asOf time.Time) float64 {
	base := 4.0

	if book.PageCount > 0 {
		base += math.Min(float64(book.PageCount)*0.02, 6.0)
	}
	if book.PublishedYear > 0 {
		switch {
		case book.PublishedYear >= asOf.Year()-6:
			base += 3.0
		case book.PublishedYear >= asOf.Year()-15:
			base += 1.75
		case book.PublishedYear <= 1985:
			base += 1.2 // vintage bump
		}
	}
	if book.AverageRating > 0 {
		base += book.AverageRating * 0.6
	}
	if book.RatingsCount > 50 {
		base += math.Min(math.Log(float64(book.RatingsCount))/math.Log(5), 2.0)
	}
	if book.ListPrice > 0 {
		base = math.Max(base, book.ListPrice*0.5)
	}

	base *= ConditionWeight(book.Condition)

	return math.Max(base, absoluteFloor)
}
