package app

import (
	"log"
	"sort"
)

// ConfidenceResult is an ALLOWED alignment row extended with the directional
// confidence score and a reference to the authorizing demand zone. The zone
// is referenced, not owned.
type ConfidenceResult struct {
	AlignmentResult
	Confidence float64 // clamped to [0,100]
	AuthZone   *Zone
}

// ConfidenceEngine computes a 0-100 directional confidence for each ALLOWED
// daily setup.
type ConfidenceEngine struct{}

// NewConfidenceEngine creates a new confidence engine
func NewConfidenceEngine() *ConfidenceEngine {
	return &ConfidenceEngine{}
}

// Score runs over ALLOWED rows only. The authorizing zone is re-selected as
// the top demand zone by (timeframe desc, score desc), which may differ from
// the zone that satisfied the alignment check when several qualify. Rows with
// no demand zone are dropped; that should not happen after the gate.
func (ce *ConfidenceEngine) Score(aligned []AlignmentResult, zones []*Zone) []ConfidenceResult {
	if len(aligned) == 0 {
		return nil
	}

	candidates := make(map[string][]*Zone)
	for _, z := range zones {
		if z.Grade == GradeA || z.Grade == GradeB {
			candidates[z.Symbol] = append(candidates[z.Symbol], z)
		}
	}

	var results []ConfidenceResult
	for _, row := range aligned {
		if row.Status != StatusAllowed {
			continue
		}

		symZones := candidates[row.Symbol]
		auth := selectAuthZone(symZones)
		if auth == nil {
			continue
		}

		price := row.Close
		score := scoreHTFStrength(auth.Score) +
			scoreConfidenceTimeframe(auth.Timeframe) +
			scoreLocation(price, auth.ZoneLow) +
			supplyPenalty(symZones, price)

		results = append(results, ConfidenceResult{
			AlignmentResult: row,
			Confidence:      clampScore(float64(score)),
			AuthZone:        auth,
		})
	}

	log.Printf("🎯 Confidence scored for %d allowed setups", len(results))
	return results
}

// selectAuthZone picks the strongest demand zone: timeframe descending first
// (monthly over weekly), composite score descending as tiebreak.
func selectAuthZone(zones []*Zone) *Zone {
	var demand []*Zone
	for _, z := range zones {
		if z.ZoneType == ZoneTypeDemand {
			demand = append(demand, z)
		}
	}
	if len(demand) == 0 {
		return nil
	}

	sort.SliceStable(demand, func(i, j int) bool {
		ri, rj := timeframeRank(demand[i].Timeframe), timeframeRank(demand[j].Timeframe)
		if ri != rj {
			return ri > rj
		}
		return demand[i].Score > demand[j].Score
	})
	return demand[0]
}

func scoreHTFStrength(zoneScore int) int {
	switch {
	case zoneScore >= 90:
		return 40
	case zoneScore >= 80:
		return 32
	case zoneScore >= 70:
		return 24
	case zoneScore >= 60:
		return 16
	default:
		return 8
	}
}

func scoreConfidenceTimeframe(tf string) int {
	if tf == TimeframeMonthly {
		return 20
	}
	return 10
}

// scoreLocation rewards entries close to the zone floor
func scoreLocation(price, zoneLow float64) int {
	distancePct := (price - zoneLow) / zoneLow
	switch {
	case distancePct <= 0.03:
		return 25
	case distancePct <= 0.06:
		return 18
	case distancePct <= 0.10:
		return 10
	default:
		return 0
	}
}

// supplyPenalty applies -15 when any graded supply zone sits above price
func supplyPenalty(zones []*Zone, price float64) int {
	for _, z := range zones {
		if z.ZoneType == ZoneTypeSupply && z.ZoneLow > price {
			return -15
		}
	}
	return 0
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
