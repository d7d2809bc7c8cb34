package pricing

import (
	"math"

	"github.com/shelfscout/appraise-cli/internal/feature"
	"github.com/shelfscout/appraise-cli/internal/model"
)

// specialistBonus reflects the specialists' measured lower error rates.
const specialistBonus = 10

// confidence derives a 0-100 score from uncertainty proxies: comparable
// counts, agreement among available platform signals, sell-through, and
// feature completeness. Not a calibrated probability -- a consistent
// score that is monotonic with evidence, used for relative ranking and
// threshold comparison only.
func confidence(book *model.BookRecord, vec feature.Vector, specialist bool) float64 {
	score := 0.0

	// Comparable volume, saturating at 20 comps.
	comps := float64(book.TotalComps())
	score += math.Min(comps, 20) / 20 * 35

	// Demonstrated sell-through.
	if ebay, ok := book.Snapshot(model.PlatformEbay); ok && ebay.SellThroughRate > 0 {
		score += math.Min(ebay.SellThroughRate, 1) * 20
	}

	// Agreement between independent platform price signals.
	if ratio := signalAgreement(book); ratio > 0 {
		score += ratio * 15
	}

	// Fraction of the feature vector that was observed, not imputed.
	score += vec.Completeness() * 20

	if specialist {
		score += specialistBonus
	}

	return math.Max(0, math.Min(score, 100))
}

// signalAgreement compares the eBay median against the AbeBooks average,
// returning min/max in (0, 1] when both are present and 0 otherwise.
func signalAgreement(book *model.BookRecord) float64 {
	ebay, okEbay := book.Snapshot(model.PlatformEbay)
	abe, okAbe := book.Snapshot(model.PlatformAbeBooks)
	if !okEbay || !okAbe || ebay.MedianPrice <= 0 || abe.AvgPrice <= 0 {
		return 0
	}
	lo, hi := ebay.MedianPrice, abe.AvgPrice
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo / hi
}
