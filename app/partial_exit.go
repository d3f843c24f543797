package app

import (
	"log"
	"sort"
)

// ManagedTrade is a trade extended with the partial-exit and trailing-stop
// simulation view. The original sizing decision is untouched.
type ManagedTrade struct {
	Trade
	FinalQuantity int64
	RealizedPnL   float64
	PartialExit   bool
	FinalStop     float64
}

// PartialExitTrailing simulates the exit ladder against subsequent daily
// bars: half off at 1R with the stop moved to breakeven, then a trailing stop
// once 2R prints. The trailing stop is monotonically non-decreasing.
type PartialExitTrailing struct {
	r1Multiple float64
	r2Multiple float64
	trailPct   float64
}

// NewPartialExitTrailing creates a new partial-exit/trailing overlay
func NewPartialExitTrailing(r1Multiple, r2Multiple, trailPct float64) *PartialExitTrailing {
	if r1Multiple <= 0 {
		r1Multiple = 1.0
	}
	if r2Multiple <= 0 {
		r2Multiple = 2.0
	}
	if trailPct <= 0 {
		trailPct = 0.5
	}
	return &PartialExitTrailing{
		r1Multiple: r1Multiple,
		r2Multiple: r2Multiple,
		trailPct:   trailPct,
	}
}

// Apply walks each trade through its symbol's bars chronologically and
// reports the resulting position state.
func (pe *PartialExitTrailing) Apply(trades []Trade, bars []Bar) []ManagedTrade {
	if len(trades) == 0 {
		return nil
	}

	bySymbol := make(map[string][]Bar)
	for _, b := range bars {
		bySymbol[b.Symbol] = append(bySymbol[b.Symbol], b)
	}
	for sym := range bySymbol {
		series := bySymbol[sym]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].TradeDate.Before(series[j].TradeDate)
		})
		bySymbol[sym] = series
	}

	results := make([]ManagedTrade, 0, len(trades))
	for _, t := range trades {
		results = append(results, pe.simulate(t, bySymbol[t.Symbol]))
	}

	log.Printf("🪜 Exit simulation complete for %d trades", len(results))
	return results
}

func (pe *PartialExitTrailing) simulate(t Trade, series []Bar) ManagedTrade {
	riskPerShare := t.Entry - t.Stop
	r1 := t.Entry + pe.r1Multiple*riskPerShare
	r2 := t.Entry + pe.r2Multiple*riskPerShare

	remaining := t.Quantity
	pnl := 0.0
	trailStop := t.Stop
	partialDone := false

	for _, bar := range series {
		// Stop hit is terminal: realize the full remaining position
		if bar.Low <= trailStop {
			pnl += (trailStop - t.Entry) * float64(remaining)
			remaining = 0
			break
		}

		// Partial exit at 1R, stop to breakeven
		if !partialDone && bar.High >= r1 {
			exitQty := remaining / 2
			pnl += (r1 - t.Entry) * float64(exitQty)
			remaining -= exitQty
			trailStop = t.Entry
			partialDone = true
		}

		// Trail once 2R prints; the stop only ever rises
		if bar.High >= r2 {
			if next := bar.High - pe.trailPct*riskPerShare; next > trailStop {
				trailStop = next
			}
		}
	}

	return ManagedTrade{
		Trade:         t,
		FinalQuantity: remaining,
		RealizedPnL:   pnl,
		PartialExit:   partialDone,
		FinalStop:     trailStop,
	}
}
