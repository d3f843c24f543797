package app

import (
	"log"
	"math"
	"sort"
	"time"

	"htf-zone-scanner/helpers"
)

// Risk target in R-multiples for the fixed profit target
const TargetRMultiple = 2.5

// Stop placement buffer below the authorizing zone floor
const StopBufferFactor = 0.995

// SymbolMeta carries classification used by the correlation overlay
type SymbolMeta struct {
	Sector    string
	IndexName string
}

// Trade is a sized long trade instruction. Entry, stop and quantity are fixed
// at planning time; overlays add views on top but never alter them.
type Trade struct {
	Symbol   string
	Entry    float64
	Stop     float64
	Target   float64
	Quantity int64

	RiskPerTrade float64
	Confidence   float64

	AuthZoneTimeframe string
	AuthZonePattern   string
	AuthZoneCreatedAt time.Time

	Sector    string
	IndexName string
}

// ExecutionPlanner converts confident setups into sized trades under the
// per-trade and portfolio risk budgets.
type ExecutionPlanner struct {
	totalCapital        float64
	maxRiskPerTradePct  float64
	maxPortfolioRiskPct float64
}

// NewExecutionPlanner creates a new execution planner
func NewExecutionPlanner(totalCapital, maxRiskPerTradePct, maxPortfolioRiskPct float64) *ExecutionPlanner {
	return &ExecutionPlanner{
		totalCapital:        totalCapital,
		maxRiskPerTradePct:  maxRiskPerTradePct,
		maxPortfolioRiskPct: maxPortfolioRiskPct,
	}
}

// BuildPlan allocates capital highest conviction first. The pass is a left
// fold carrying the portfolio risk accumulator: order is the correctness
// contract, so the sort is stable with symbol as tiebreak. Degenerate rows
// (entry at or below the zone floor, non-positive risk or quantity) are
// skipped silently, they are expected filtering outcomes.
func (ep *ExecutionPlanner) BuildPlan(rows []ConfidenceResult, meta map[string]SymbolMeta) []Trade {
	if len(rows) == 0 {
		return nil
	}

	sorted := make([]ConfidenceResult, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		return sorted[i].Symbol < sorted[j].Symbol
	})

	portfolioBudget := ep.totalCapital * ep.maxPortfolioRiskPct
	portfolioRiskUsed := 0.0

	var trades []Trade
	for _, row := range sorted {
		if row.AuthZone == nil {
			continue
		}

		entry := row.Close
		zoneLow := row.AuthZone.ZoneLow
		if entry <= zoneLow {
			continue
		}

		stop := zoneLow * StopBufferFactor
		riskPerShare := entry - stop
		if riskPerShare <= 0 {
			continue
		}

		capitalAtRisk := ep.totalCapital * ep.maxRiskPerTradePct * confidenceMultiplier(row.Confidence)

		// Running portfolio cap, never reset mid-pass
		if portfolioRiskUsed+capitalAtRisk > portfolioBudget {
			continue
		}

		quantity := int64(math.Floor(capitalAtRisk / riskPerShare))
		if quantity <= 0 {
			continue
		}

		m := meta[row.Symbol]
		if m.Sector == "" {
			m.Sector = "UNKNOWN"
		}
		if m.IndexName == "" {
			m.IndexName = "UNKNOWN"
		}

		trades = append(trades, Trade{
			Symbol:            row.Symbol,
			Entry:             entry,
			Stop:              stop,
			Target:            entry + TargetRMultiple*riskPerShare,
			Quantity:          quantity,
			RiskPerTrade:      capitalAtRisk,
			Confidence:        row.Confidence,
			AuthZoneTimeframe: row.AuthZone.Timeframe,
			AuthZonePattern:   row.AuthZone.Pattern,
			AuthZoneCreatedAt: row.AuthZone.CreatedAt,
			Sector:            m.Sector,
			IndexName:         m.IndexName,
		})

		portfolioRiskUsed += capitalAtRisk
	}

	log.Printf("💰 Execution plan: %d trades, portfolio risk %s of %s budget",
		len(trades), helpers.FormatMoney(portfolioRiskUsed), helpers.FormatMoney(portfolioBudget))
	return trades
}

// confidenceMultiplier maps the confidence tier onto the risk multiplier
func confidenceMultiplier(confidence float64) float64 {
	switch {
	case confidence >= 75:
		return 1.0
	case confidence >= 65:
		return 0.75
	case confidence >= 55:
		return 0.5
	default:
		return 0.25
	}
}
