// Package model holds the shared domain types for the appraisal pipeline.
package model

import (
	"strings"
	"time"
)

// Platform identifies a marketplace that supplies pricing signals.
type Platform string

const (
	PlatformEbay       Platform = "ebay"
	PlatformAbeBooks   Platform = "abebooks"
	PlatformAmazon     Platform = "amazon"
	PlatformAggregator Platform = "aggregator"
)

// Condition is a standardized book condition grade.
type Condition string

const (
	ConditionNew        Condition = "New"
	ConditionLikeNew    Condition = "Like New"
	ConditionVeryGood   Condition = "Very Good"
	ConditionGood       Condition = "Good"
	ConditionAcceptable Condition = "Acceptable"
	ConditionPoor       Condition = "Poor"
)

// ParseCondition maps free-text condition strings to a standard grade.
// Unrecognized input defaults to Good, the median grade for scouted stock.
func ParseCondition(s string) Condition {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(lower, "like new"):
		return ConditionLikeNew
	case strings.Contains(lower, "new"):
		return ConditionNew
	case strings.Contains(lower, "very good"):
		return ConditionVeryGood
	case strings.Contains(lower, "acceptable"):
		return ConditionAcceptable
	case strings.Contains(lower, "poor"), strings.Contains(lower, "parts"):
		return ConditionPoor
	case lower == "good":
		return ConditionGood
	default:
		return ConditionGood
	}
}

// MarketSnapshot summarizes one platform's observed market for a book.
// Absence of a platform's snapshot is a first-class state, not an error.
type MarketSnapshot struct {
	Platform        Platform  `json:"platform"`
	MinPrice        float64   `json:"min_price,omitempty"`
	AvgPrice        float64   `json:"avg_price,omitempty"`
	MedianPrice     float64   `json:"median_price,omitempty"`
	OfferCount      int       `json:"offer_count,omitempty"`
	SoldCount       int       `json:"sold_count,omitempty"`
	SoldAvgPrice    float64   `json:"sold_avg_price,omitempty"`
	UnsoldCount     int       `json:"unsold_count,omitempty"`
	SellThroughRate float64   `json:"sell_through_rate,omitempty"`
	SalesRank       int       `json:"sales_rank,omitempty"`
	FetchedAt       time.Time `json:"fetched_at,omitempty"`
}

// BookRecord is a single book as assembled by the collectors: catalog
// metadata, physical attributes, and zero or more market snapshots keyed
// by platform. Immutable for the duration of one appraisal call.
type BookRecord struct {
	ISBN          string                      `json:"isbn"`
	Title         string                      `json:"title"`
	Creators      []string                    `json:"creators,omitempty"`
	Binding       string                      `json:"binding,omitempty"`
	Condition     Condition                   `json:"condition,omitempty"`
	Signed        bool                        `json:"signed,omitempty"`
	FirstEdition  bool                        `json:"first_edition,omitempty"`
	PageCount     int                         `json:"page_count,omitempty"`
	PublishedYear int                         `json:"published_year,omitempty"`
	AverageRating float64                     `json:"average_rating,omitempty"`
	RatingsCount  int                         `json:"ratings_count,omitempty"`
	ListPrice     float64                     `json:"list_price,omitempty"`
	Categories    []string                    `json:"categories,omitempty"`
	Snapshots     map[Platform]MarketSnapshot `json:"snapshots,omitempty"`
}

// Snapshot returns the snapshot for a platform, reporting presence explicitly.
func (b *BookRecord) Snapshot(p Platform) (MarketSnapshot, bool) {
	snap, ok := b.Snapshots[p]
	return snap, ok
}

// TotalComps counts sold and active comparables across the eBay snapshot,
// the evidence base the decision policy gates on.
func (b *BookRecord) TotalComps() int {
	snap, ok := b.Snapshot(PlatformEbay)
	if !ok {
		return 0
	}
	return snap.SoldCount + snap.OfferCount
}
