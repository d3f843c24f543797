package app

import (
	"log"
	"sort"
)

// CorrelationCap limits how many trades from one plan can cluster in a single
// sector or index. It is a pure counting pass: capital is never recomputed.
type CorrelationCap struct {
	maxTradesPerSector int
	maxTradesPerIndex  int
}

// NewCorrelationCap creates a new correlation cap overlay
func NewCorrelationCap(maxTradesPerSector, maxTradesPerIndex int) *CorrelationCap {
	if maxTradesPerSector <= 0 {
		maxTradesPerSector = 2
	}
	if maxTradesPerIndex <= 0 {
		maxTradesPerIndex = 3
	}
	return &CorrelationCap{
		maxTradesPerSector: maxTradesPerSector,
		maxTradesPerIndex:  maxTradesPerIndex,
	}
}

// Apply greedily accepts trades strongest conviction first while the
// per-sector and per-index counts stay under their caps. Running the overlay
// on its own output changes nothing.
func (cc *CorrelationCap) Apply(trades []Trade) []Trade {
	if len(trades) == 0 {
		return trades
	}

	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return sorted[i].Symbol < sorted[j].Symbol
	})

	sectorCount := make(map[string]int)
	indexCount := make(map[string]int)

	accepted := make([]Trade, 0, len(sorted))
	for _, t := range sorted {
		if sectorCount[t.Sector] >= cc.maxTradesPerSector {
			continue
		}
		if indexCount[t.IndexName] >= cc.maxTradesPerIndex {
			continue
		}

		accepted = append(accepted, t)
		sectorCount[t.Sector]++
		indexCount[t.IndexName]++
	}

	if len(accepted) < len(trades) {
		log.Printf("🔗 Correlation cap: %d of %d trades kept", len(accepted), len(trades))
	}
	return accepted
}
