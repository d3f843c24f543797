package app

import (
	"log"
	"sort"
	"sync"
	"time"
)

// Zone classification constants
const (
	ZoneTypeDemand = "DEMAND"
	ZoneTypeSupply = "SUPPLY"

	// Demand patterns
	PatternDBR = "DBR" // Drop → Base → Rally (primary)
	PatternRBR = "RBR" // Rally → Base → Rally (continuation)

	// Supply patterns
	PatternRBD = "RBD" // Rally → Base → Drop (primary)
	PatternDBD = "DBD" // Drop → Base → Drop (continuation)
)

// Candle classification thresholds
const (
	BaseBodyRatioMax    = 0.40 // body/range at or below this is a base candle
	ImpulseBodyRatioMin = 0.60 // body/range at or above this is an impulse candle

	MaxBaseCandles = 6 // longest consolidation run that still forms a zone

	// Impulse displacement must clear the base by this multiple of base range.
	// Exactly 1.5x qualifies.
	MinDepartureMultiple = 1.5
)

// Zone is a price interval left behind by a demand or supply imbalance on a
// higher timeframe. Detection fills the structural fields; the freshness
// engine and strength scorer enrich it in place. After grading it is never
// mutated again.
type Zone struct {
	Symbol    string
	Timeframe string // W or M
	ZoneType  string // DEMAND or SUPPLY
	Pattern   string // DBR, RBR, RBD, DBD

	ZoneLow     float64
	ZoneHigh    float64
	BaseCandles int

	BaseStartDate time.Time
	BaseEndDate   time.Time
	ImpulseDate   time.Time
	CreatedAt     time.Time // resolved once, see freshness engine

	// Freshness enrichment
	TouchCount     int
	FreshnessScore int
	Exhausted      bool

	// Strength enrichment
	ScoreTimeframe int
	ScorePattern   int
	ScoreBase      int
	ScoreDeparture int
	Score          int    // composite htf_zone_score
	Grade          string // REJECT, C, B, A
}

// candleClass is the structural classification of a single HTF candle
type candleClass struct {
	isBase        bool
	isBullImpulse bool
	isBearImpulse bool
}

// classifyCandle derives the base/impulse classification from body ratio.
// A zero-range candle (high == low) is neither base nor impulse.
func classifyCandle(b Bar) candleClass {
	rng := b.High - b.Low
	if rng <= 0 {
		return candleClass{}
	}

	body := b.Close - b.Open
	if body < 0 {
		body = -body
	}
	ratio := body / rng

	return candleClass{
		isBase:        ratio <= BaseBodyRatioMax,
		isBullImpulse: ratio >= ImpulseBodyRatioMin && b.Close > b.Open,
		isBearImpulse: ratio >= ImpulseBodyRatioMin && b.Close < b.Open,
	}
}

// ZoneDetector scans HTF candle sequences for demand and supply zones
type ZoneDetector struct {
	workers int
}

// NewZoneDetector creates a new zone detector. workers caps the number of
// goroutines used for per-symbol scans; values below 1 mean sequential.
func NewZoneDetector(workers int) *ZoneDetector {
	if workers < 1 {
		workers = 1
	}
	return &ZoneDetector{workers: workers}
}

// DetectAll scans the weekly and monthly series of every symbol and returns
// the merged zone list. Per-symbol scans share no state, so they fan out
// across a worker pool; the merged result is re-sorted so the output does not
// depend on completion order.
func (zd *ZoneDetector) DetectAll(weekly, monthly []Bar) []*Zone {
	type job struct {
		symbol string
		series []Bar
	}

	var jobs []job
	for _, series := range [][]Bar{weekly, monthly} {
		for _, group := range groupBySymbol(series) {
			jobs = append(jobs, job{symbol: group[0].Symbol, series: group})
		}
	}

	results := make([][]*Zone, len(jobs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, zd.workers)
	for i, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, j job) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = zd.scanSeries(j.series)
		}(i, j)
	}
	wg.Wait()

	var zones []*Zone
	for _, r := range results {
		zones = append(zones, r...)
	}

	sort.SliceStable(zones, func(i, j int) bool {
		if zones[i].Symbol != zones[j].Symbol {
			return zones[i].Symbol < zones[j].Symbol
		}
		if zones[i].Timeframe != zones[j].Timeframe {
			return zones[i].Timeframe < zones[j].Timeframe
		}
		return zones[i].ImpulseDate.Before(zones[j].ImpulseDate)
	})

	log.Printf("🔍 Zone detection complete: %d zones across %d symbol/timeframe series", len(zones), len(jobs))
	return zones
}

// scanSeries runs the single forward pass over one symbol's candles on one
// timeframe. At each position the demand patterns are checked before the
// supply patterns; on a fire the cursor jumps past the impulse bar so a base
// run never produces overlapping zones.
func (zd *ZoneDetector) scanSeries(series []Bar) []*Zone {
	n := len(series)
	if n < 3 {
		return nil
	}

	classes := make([]candleClass, n)
	for i, b := range series {
		classes[i] = classifyCandle(b)
	}

	var zones []*Zone

	i := 1
	for i < n-1 {
		prior := classes[i-1]

		// Demand: prior bear → DBR, prior bull → RBR
		if prior.isBearImpulse || prior.isBullImpulse {
			pattern := PatternDBR
			if prior.isBullImpulse {
				pattern = PatternRBR
			}
			if z, next := zd.tryDemand(series, classes, i, pattern); z != nil {
				zones = append(zones, z)
				i = next
				continue
			}
		}

		// Supply: prior bull → RBD, prior bear → DBD
		if prior.isBullImpulse || prior.isBearImpulse {
			pattern := PatternRBD
			if prior.isBearImpulse {
				pattern = PatternDBD
			}
			if z, next := zd.trySupply(series, classes, i, pattern); z != nil {
				zones = append(zones, z)
				i = next
				continue
			}
		}

		i++
	}

	return zones
}

// extendBase greedily grows the contiguous base run starting at baseStart.
// The run always includes the bar at baseStart and stays under MaxBaseCandles.
func extendBase(classes []candleClass, baseStart, n int) (baseEnd int) {
	baseEnd = baseStart
	for baseEnd+1 < n && classes[baseEnd+1].isBase && (baseEnd-baseStart+1) < MaxBaseCandles {
		baseEnd++
	}
	return baseEnd
}

func (zd *ZoneDetector) tryDemand(series []Bar, classes []candleClass, baseStart int, pattern string) (*Zone, int) {
	n := len(series)
	baseEnd := extendBase(classes, baseStart, n)
	if baseEnd+1 >= n {
		return nil, 0
	}

	impulse := series[baseEnd+1]
	baseHigh, baseLow := rangeExtremes(series[baseStart : baseEnd+1])
	baseRange := baseHigh - baseLow

	if !classes[baseEnd+1].isBullImpulse {
		return nil, 0
	}
	if impulse.Close <= baseHigh {
		return nil, 0
	}
	if impulse.Close-baseHigh < MinDepartureMultiple*baseRange {
		return nil, 0
	}

	// Demand zones keep the raw base low; the top is the body extreme
	zoneHigh := baseLow
	for _, b := range series[baseStart : baseEnd+1] {
		if b.Open > zoneHigh {
			zoneHigh = b.Open
		}
		if b.Close > zoneHigh {
			zoneHigh = b.Close
		}
	}

	return &Zone{
		Symbol:        impulse.Symbol,
		Timeframe:     impulse.Timeframe,
		ZoneType:      ZoneTypeDemand,
		Pattern:       pattern,
		ZoneLow:       baseLow,
		ZoneHigh:      zoneHigh,
		BaseCandles:   baseEnd - baseStart + 1,
		BaseStartDate: series[baseStart].TradeDate,
		BaseEndDate:   series[baseEnd].TradeDate,
		ImpulseDate:   impulse.TradeDate,
		CreatedAt:     series[baseEnd].TradeDate,
	}, baseEnd + 2
}

func (zd *ZoneDetector) trySupply(series []Bar, classes []candleClass, baseStart int, pattern string) (*Zone, int) {
	n := len(series)
	baseEnd := extendBase(classes, baseStart, n)
	if baseEnd+1 >= n {
		return nil, 0
	}

	impulse := series[baseEnd+1]
	baseHigh, baseLow := rangeExtremes(series[baseStart : baseEnd+1])
	baseRange := baseHigh - baseLow

	if !classes[baseEnd+1].isBearImpulse {
		return nil, 0
	}
	if impulse.Close >= baseLow {
		return nil, 0
	}
	if baseLow-impulse.Close < MinDepartureMultiple*baseRange {
		return nil, 0
	}

	// Supply zones keep the raw base high; the bottom is the body extreme
	zoneLow := baseHigh
	for _, b := range series[baseStart : baseEnd+1] {
		if b.Open < zoneLow {
			zoneLow = b.Open
		}
		if b.Close < zoneLow {
			zoneLow = b.Close
		}
	}

	return &Zone{
		Symbol:        impulse.Symbol,
		Timeframe:     impulse.Timeframe,
		ZoneType:      ZoneTypeSupply,
		Pattern:       pattern,
		ZoneLow:       zoneLow,
		ZoneHigh:      baseHigh,
		BaseCandles:   baseEnd - baseStart + 1,
		BaseStartDate: series[baseStart].TradeDate,
		BaseEndDate:   series[baseEnd].TradeDate,
		ImpulseDate:   impulse.TradeDate,
		CreatedAt:     series[baseEnd].TradeDate,
	}, baseEnd + 2
}

// rangeExtremes returns the max high and min low over a run of bars
func rangeExtremes(run []Bar) (high, low float64) {
	high = run[0].High
	low = run[0].Low
	for _, b := range run[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}

// groupBySymbol splits a (symbol, trade_date) sorted series into per-symbol
// slices without copying bars.
func groupBySymbol(series []Bar) [][]Bar {
	var groups [][]Bar
	start := 0
	for i := 1; i <= len(series); i++ {
		if i == len(series) || series[i].Symbol != series[start].Symbol {
			groups = append(groups, series[start:i])
			start = i
		}
	}
	return groups
}
