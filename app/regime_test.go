package app

import (
	"testing"
	"time"
)

func trendSeries(n int, start, step float64) []Bar {
	bars := make([]Bar, n)
	price := start
	for i := range bars {
		bars[i] = Bar{
			Symbol:    "BBCA",
			TradeDate: date(2025, time.January, 1).AddDate(0, 0, 7*i),
			Open:      price,
			High:      price + 0.5,
			Low:       price - 0.5,
			Close:     price,
		}
		price += step
	}
	return bars
}

func TestTrendRegimeClassify(t *testing.T) {
	rc := NewTrendRegimeClassifier(50, 0.02)

	tests := []struct {
		name     string
		series   []Bar
		expected string
	}{
		{"steady uptrend", trendSeries(60, 100, 1), RegimeBull},
		{"steady downtrend", trendSeries(60, 200, -1), RegimeBear},
		{"flat tape", trendSeries(60, 100, 0), RegimeRange},
		{"too short for a verdict", trendSeries(49, 100, 1), RegimeRange},
		{"empty series", nil, RegimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rc.Classify(tt.series); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
