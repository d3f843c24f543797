package app

import "log"

// Alignment statuses and block reasons
const (
	StatusAllowed = "ALLOWED"
	StatusBlocked = "BLOCKED"

	BlockSupplyOverhead = "HTF_SUPPLY_OVERHEAD"
	BlockNoDemand       = "NO_HTF_DEMAND"
	BlockBelowDemand    = "BELOW_HTF_DEMAND"
)

// AlignmentResult is a daily bar extended with the gate's verdict.
// BlockReason is empty for ALLOWED rows.
type AlignmentResult struct {
	Bar
	Status      string
	BlockReason string
}

// AlignmentGate evaluates daily setups against graded HTF zones. Only zones
// graded A or B participate. The supply-overhead block is hard: it short-
// circuits the demand checks entirely.
type AlignmentGate struct {
	supplyBlockPct float64
}

// NewAlignmentGate creates a new alignment gate. supplyBlockPct is the
// maximum relative distance to an overhead supply zone that blocks entries.
func NewAlignmentGate(supplyBlockPct float64) *AlignmentGate {
	if supplyBlockPct <= 0 {
		supplyBlockPct = 0.10
	}
	return &AlignmentGate{supplyBlockPct: supplyBlockPct}
}

// Evaluate gates every daily row. The output is total: each input row
// receives exactly one status.
func (ag *AlignmentGate) Evaluate(daily []Bar, zones []*Zone) []AlignmentResult {
	if len(daily) == 0 {
		return nil
	}

	candidates := make(map[string][]*Zone)
	for _, z := range zones {
		if z.Grade == GradeA || z.Grade == GradeB {
			candidates[z.Symbol] = append(candidates[z.Symbol], z)
		}
	}

	results := make([]AlignmentResult, 0, len(daily))
	allowed := 0
	for _, d := range daily {
		r := ag.evaluateRow(d, candidates[d.Symbol])
		if r.Status == StatusAllowed {
			allowed++
		}
		results = append(results, r)
	}

	log.Printf("🚦 Alignment gate: %d/%d rows ALLOWED", allowed, len(results))
	return results
}

func (ag *AlignmentGate) evaluateRow(d Bar, zones []*Zone) AlignmentResult {
	price := d.Close

	// Rule 1: hard supply block. Any A/B supply zone hanging close enough
	// overhead blocks the symbol outright.
	for _, z := range zones {
		if z.ZoneType != ZoneTypeSupply {
			continue
		}
		if z.ZoneLow > price && (z.ZoneLow-price)/price <= ag.supplyBlockPct {
			return AlignmentResult{Bar: d, Status: StatusBlocked, BlockReason: BlockSupplyOverhead}
		}
	}

	// Rule 2: demand authorization, monthly zones ranked above weekly
	demand := demandZonesByPriority(zones)
	if len(demand) == 0 {
		return AlignmentResult{Bar: d, Status: StatusBlocked, BlockReason: BlockNoDemand}
	}

	for _, z := range demand {
		if price >= z.ZoneLow {
			return AlignmentResult{Bar: d, Status: StatusAllowed}
		}
	}
	return AlignmentResult{Bar: d, Status: StatusBlocked, BlockReason: BlockBelowDemand}
}

// timeframeRank orders timeframes for priority sorting: monthly above weekly
func timeframeRank(tf string) int {
	switch tf {
	case TimeframeMonthly:
		return 2
	case TimeframeWeekly:
		return 1
	default:
		return 0
	}
}

// demandZonesByPriority filters to demand zones sorted by timeframe
// descending (monthly first), preserving detection order inside a timeframe.
func demandZonesByPriority(zones []*Zone) []*Zone {
	var demand []*Zone
	for _, z := range zones {
		if z.ZoneType == ZoneTypeDemand {
			demand = append(demand, z)
		}
	}
	// Insertion-stable two-bucket split keeps this O(n)
	ordered := make([]*Zone, 0, len(demand))
	for _, z := range demand {
		if timeframeRank(z.Timeframe) == 2 {
			ordered = append(ordered, z)
		}
	}
	for _, z := range demand {
		if timeframeRank(z.Timeframe) != 2 {
			ordered = append(ordered, z)
		}
	}
	return ordered
}
