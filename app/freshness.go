package app

import (
	"log"
	"time"
)

// Freshness score bands by touch count
const (
	FreshnessUntouched  = 20  // 0 touches
	FreshnessOneTouch   = 10  // 1 touch
	FreshnessTwoTouches = 0   // 2 touches
	FreshnessExhausted  = -20 // 3+ touches
)

// ZoneFreshnessEngine counts post-formation price touches of each zone and
// derives a freshness score plus an exhaustion flag.
type ZoneFreshnessEngine struct {
	maxTouches int
}

// NewZoneFreshnessEngine creates a new freshness engine. maxTouches is the
// touch count at which a zone is considered exhausted.
func NewZoneFreshnessEngine(maxTouches int) *ZoneFreshnessEngine {
	if maxTouches <= 0 {
		maxTouches = 3
	}
	return &ZoneFreshnessEngine{maxTouches: maxTouches}
}

// Enrich resolves each zone's creation date, counts touches against the daily
// series and fills TouchCount, FreshnessScore and Exhausted in place.
func (fe *ZoneFreshnessEngine) Enrich(zones []*Zone, daily []Bar) {
	if len(zones) == 0 || len(daily) == 0 {
		return
	}

	earliest := earliestTradeDate(daily)

	bySymbol := make(map[string][]Bar)
	for _, group := range groupBySymbol(daily) {
		bySymbol[group[0].Symbol] = group
	}

	exhausted := 0
	for _, z := range zones {
		z.CreatedAt = fe.resolveCreatedAt(z, earliest)

		touches := 0
		for _, b := range bySymbol[z.Symbol] {
			if !b.TradeDate.After(z.CreatedAt) {
				continue
			}
			// Bar range overlaps the zone interval
			if b.Low <= z.ZoneHigh && b.High >= z.ZoneLow {
				touches++
			}
		}

		z.TouchCount = touches
		z.FreshnessScore = freshnessScore(touches)
		z.Exhausted = touches >= fe.maxTouches
		if z.Exhausted {
			exhausted++
		}
	}

	log.Printf("🌱 Freshness computed for %d zones (%d exhausted)", len(zones), exhausted)
}

// resolveCreatedAt picks the zone creation date in fixed priority order:
// explicit creation date, base-end date, base-start date, then the earliest
// available price date as the conservative default. The chosen value is
// stored back on the zone so downstream stages never re-derive it.
func (fe *ZoneFreshnessEngine) resolveCreatedAt(z *Zone, earliest time.Time) time.Time {
	switch {
	case !z.CreatedAt.IsZero():
		return z.CreatedAt
	case !z.BaseEndDate.IsZero():
		return z.BaseEndDate
	case !z.BaseStartDate.IsZero():
		return z.BaseStartDate
	default:
		return earliest
	}
}

func freshnessScore(touches int) int {
	switch touches {
	case 0:
		return FreshnessUntouched
	case 1:
		return FreshnessOneTouch
	case 2:
		return FreshnessTwoTouches
	default:
		return FreshnessExhausted
	}
}

func earliestTradeDate(bars []Bar) time.Time {
	earliest := bars[0].TradeDate
	for _, b := range bars[1:] {
		if b.TradeDate.Before(earliest) {
			earliest = b.TradeDate
		}
	}
	return earliest
}
