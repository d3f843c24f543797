package app

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Timeframe identifiers
const (
	TimeframeDaily   = "D"
	TimeframeWeekly  = "W"
	TimeframeMonthly = "M"
)

// Bar represents a single OHLCV bar for a symbol at a given timeframe.
// Bars are immutable once built and ordered by (symbol, trade_date).
type Bar struct {
	Symbol    string
	TradeDate time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Timeframe string
}

// TimeframeBuilder derives weekly and monthly series from validated daily bars
type TimeframeBuilder struct{}

// NewTimeframeBuilder creates a new timeframe builder
func NewTimeframeBuilder() *TimeframeBuilder {
	return &TimeframeBuilder{}
}

// ValidateDailyBars checks the daily series against the ingestion contract.
// It returns a single error naming every violated field so the run can abort
// before any computation starts.
func (tb *TimeframeBuilder) ValidateDailyBars(daily []Bar) error {
	if len(daily) == 0 {
		return fmt.Errorf("daily bar series is empty")
	}

	var problems []string
	for i, b := range daily {
		if b.Symbol == "" {
			problems = append(problems, fmt.Sprintf("row %d: symbol is empty", i))
		} else if b.Symbol != strings.ToUpper(strings.TrimSpace(b.Symbol)) {
			problems = append(problems, fmt.Sprintf("row %d: symbol %q not uppercased/trimmed", i, b.Symbol))
		}
		if b.TradeDate.IsZero() {
			problems = append(problems, fmt.Sprintf("row %d: trade_date is zero", i))
		}
		if b.High < b.Low {
			problems = append(problems, fmt.Sprintf("row %d (%s): high %.4f < low %.4f", i, b.Symbol, b.High, b.Low))
		}
		if i > 0 {
			prev := daily[i-1]
			if b.Symbol < prev.Symbol || (b.Symbol == prev.Symbol && b.TradeDate.Before(prev.TradeDate)) {
				problems = append(problems, fmt.Sprintf("row %d (%s): not sorted by (symbol, trade_date)", i, b.Symbol))
			}
			if b.Symbol == prev.Symbol && b.TradeDate.Equal(prev.TradeDate) {
				problems = append(problems, fmt.Sprintf("row %d (%s): duplicate trade_date %s", i, b.Symbol, b.TradeDate.Format("2006-01-02")))
			}
		}
		// Cap the error message, a broken feed repeats the same defect
		if len(problems) >= 10 {
			problems = append(problems, "... (further rows omitted)")
			break
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("daily bar validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// BuildWeekly aggregates daily bars into weekly bars (period ending Friday)
func (tb *TimeframeBuilder) BuildWeekly(daily []Bar) []Bar {
	return tb.aggregate(daily, TimeframeWeekly, weekEndingFriday)
}

// BuildMonthly aggregates daily bars into monthly bars (calendar month-end)
func (tb *TimeframeBuilder) BuildMonthly(daily []Bar) []Bar {
	return tb.aggregate(daily, TimeframeMonthly, monthEnd)
}

// Build produces both HTF series from the daily series
func (tb *TimeframeBuilder) Build(daily []Bar) (weekly, monthly []Bar) {
	weekly = tb.BuildWeekly(daily)
	monthly = tb.BuildMonthly(daily)
	log.Printf("🧱 Timeframes built: %d daily → %d weekly, %d monthly bars", len(daily), len(weekly), len(monthly))
	return weekly, monthly
}

// aggregate groups the daily series by (symbol, period end) preserving the
// input order inside each group, so open=first and close=last hold.
func (tb *TimeframeBuilder) aggregate(daily []Bar, timeframe string, periodEnd func(time.Time) time.Time) []Bar {
	if len(daily) == 0 {
		return nil
	}

	type periodKey struct {
		symbol string
		end    time.Time
	}

	groups := make(map[periodKey]*Bar)
	order := make([]periodKey, 0)

	for _, d := range daily {
		key := periodKey{symbol: d.Symbol, end: periodEnd(d.TradeDate)}

		bar, ok := groups[key]
		if !ok {
			groups[key] = &Bar{
				Symbol:    d.Symbol,
				TradeDate: key.end,
				Open:      d.Open,
				High:      d.High,
				Low:       d.Low,
				Close:     d.Close,
				Volume:    d.Volume,
				Timeframe: timeframe,
			}
			order = append(order, key)
			continue
		}

		if d.High > bar.High {
			bar.High = d.High
		}
		if d.Low < bar.Low {
			bar.Low = d.Low
		}
		bar.Close = d.Close
		bar.Volume += d.Volume
	}

	out := make([]Bar, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].TradeDate.Before(out[j].TradeDate)
	})

	return out
}

// weekEndingFriday maps a date onto the Friday that closes its week.
// Saturday and Sunday roll forward into the next week's Friday.
func weekEndingFriday(d time.Time) time.Time {
	offset := (int(time.Friday) - int(d.Weekday()) + 7) % 7
	end := d.AddDate(0, 0, offset)
	return time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
}

// monthEnd maps a date onto the last day of its calendar month
func monthEnd(d time.Time) time.Time {
	firstOfNext := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
