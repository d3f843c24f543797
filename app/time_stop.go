package app

import "log"

// TimedTrade is a trade extended with the time-based invalidation view
type TimedTrade struct {
	Trade
	BarsAlive         int
	TimeStopTriggered bool
}

// TimeStop flags trades whose authorizing zone has been alive too long: a
// setup that has not moved within a fixed number of daily bars is stale.
type TimeStop struct {
	maxBarsAlive int
}

// NewTimeStop creates a new time-stop overlay
func NewTimeStop(maxBarsAlive int) *TimeStop {
	if maxBarsAlive <= 0 {
		maxBarsAlive = 10
	}
	return &TimeStop{maxBarsAlive: maxBarsAlive}
}

// Apply counts the daily bars strictly after each trade's authorizing zone
// creation date and flags the trade once the count reaches the cap.
func (ts *TimeStop) Apply(trades []Trade, bars []Bar) []TimedTrade {
	if len(trades) == 0 {
		return nil
	}

	bySymbol := make(map[string][]Bar)
	for _, b := range bars {
		bySymbol[b.Symbol] = append(bySymbol[b.Symbol], b)
	}

	results := make([]TimedTrade, 0, len(trades))
	triggered := 0
	for _, t := range trades {
		barsAlive := 0
		for _, b := range bySymbol[t.Symbol] {
			if b.TradeDate.After(t.AuthZoneCreatedAt) {
				barsAlive++
			}
		}

		tt := TimedTrade{
			Trade:             t,
			BarsAlive:         barsAlive,
			TimeStopTriggered: barsAlive >= ts.maxBarsAlive,
		}
		if tt.TimeStopTriggered {
			triggered++
		}
		results = append(results, tt)
	}

	if triggered > 0 {
		log.Printf("⏳ Time stop triggered on %d of %d trades", triggered, len(results))
	}
	return results
}
