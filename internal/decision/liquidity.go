package decision

import (
	"github.com/shelfscout/appraise-cli/internal/model"
)

// TTS bounds in days. Sold counts cover a 90-day window.
const (
	soldWindowDays = 90
	minTTSDays     = 7
	maxTTSDays     = 365
)

// TimeToSell estimates how many days one unit takes to sell from the
// eBay snapshot's 90-day sold count: TTS = 90 / sold, capped to
// [7, 365]. Nothing sold caps at the maximum. Returns nil when there is
// no market data to estimate from.
func TimeToSell(book *model.BookRecord) *int {
	snap, ok := book.Snapshot(model.PlatformEbay)
	if !ok || snap.SoldCount < 0 {
		return nil
	}
	tts := maxTTSDays
	if snap.SoldCount > 0 {
		tts = int(float64(soldWindowDays) / float64(snap.SoldCount))
		if tts < minTTSDays {
			tts = minTTSDays
		}
		if tts > maxTTSDays {
			tts = maxTTSDays
		}
	}
	return &tts
}

// Rarity scores supply scarcity in (0, 1]: fewer active and unsold
// listings mean a rarer book. Returns nil without market data.
func Rarity(book *model.BookRecord) *float64 {
	snap, ok := book.Snapshot(model.PlatformEbay)
	if !ok {
		return nil
	}
	denom := snap.OfferCount + snap.UnsoldCount
	if denom < 1 {
		denom = 1
	}
	r := 1 / float64(denom+1)
	return &r
}
