package app

import (
	"testing"
	"time"
)

func allowedRow(symbol string, close float64) AlignmentResult {
	return AlignmentResult{
		Bar:    Bar{Symbol: symbol, TradeDate: date(2025, time.April, 7), Close: close},
		Status: StatusAllowed,
	}
}

func TestConfidenceBands(t *testing.T) {
	strengthTests := []struct {
		zoneScore int
		expected  int
	}{
		{95, 40}, {90, 40}, {89, 32}, {80, 32}, {79, 24}, {70, 24}, {69, 16}, {60, 16}, {59, 8}, {0, 8},
	}
	for _, tt := range strengthTests {
		if got := scoreHTFStrength(tt.zoneScore); got != tt.expected {
			t.Errorf("zone score %d: expected strength %d, got %d", tt.zoneScore, tt.expected, got)
		}
	}

	locationTests := []struct {
		price    float64
		zoneLow  float64
		expected int
	}{
		{100, 100, 25},   // at the floor
		{103, 100, 25},   // exactly 3%
		{106, 100, 18},   // exactly 6%
		{110, 100, 10},   // exactly 10%
		{111, 100, 0},    // beyond 10%
		{100, 95, 18},    // 5.26%
	}
	for _, tt := range locationTests {
		if got := scoreLocation(tt.price, tt.zoneLow); got != tt.expected {
			t.Errorf("price %.0f zone_low %.0f: expected location %d, got %d", tt.price, tt.zoneLow, tt.expected, got)
		}
	}

	if got := scoreConfidenceTimeframe(TimeframeMonthly); got != 20 {
		t.Errorf("monthly timeframe: expected 20, got %d", got)
	}
	if got := scoreConfidenceTimeframe(TimeframeWeekly); got != 10 {
		t.Errorf("weekly timeframe: expected 10, got %d", got)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{-7, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{105, 100},
	}
	for _, tt := range tests {
		if got := clampScore(tt.in); got != tt.expected {
			t.Errorf("clamp(%.0f): expected %.0f, got %.0f", tt.in, tt.expected, got)
		}
	}
}

func TestConfidenceScoring(t *testing.T) {
	ce := NewConfidenceEngine()

	monthlyZone := demandZone("BBCA", TimeframeMonthly, 95, 102, GradeA)
	monthlyZone.Score = 100

	t.Run("monthly authorization without supply", func(t *testing.T) {
		results := ce.Score([]AlignmentResult{allowedRow("BBCA", 100)}, []*Zone{monthlyZone})
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		// 40 strength + 20 timeframe + 18 location (5.26%)
		if results[0].Confidence != 78 {
			t.Errorf("expected confidence 78, got %.0f", results[0].Confidence)
		}
		if results[0].AuthZone != monthlyZone {
			t.Error("expected the monthly zone as authorization")
		}
	})

	t.Run("overhead supply applies the penalty", func(t *testing.T) {
		supply := supplyZone("BBCA", TimeframeWeekly, 115, 120, GradeB)
		results := ce.Score([]AlignmentResult{allowedRow("BBCA", 100)}, []*Zone{monthlyZone, supply})
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		if results[0].Confidence != 63 {
			t.Errorf("expected confidence 63, got %.0f", results[0].Confidence)
		}
	})

	t.Run("monthly outranks a stronger weekly zone", func(t *testing.T) {
		weakerMonthly := demandZone("BBCA", TimeframeMonthly, 95, 102, GradeB)
		weakerMonthly.Score = 72
		strongWeekly := demandZone("BBCA", TimeframeWeekly, 96, 101, GradeA)
		strongWeekly.Score = 100

		results := ce.Score([]AlignmentResult{allowedRow("BBCA", 100)}, []*Zone{strongWeekly, weakerMonthly})
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		if results[0].AuthZone != weakerMonthly {
			t.Error("monthly zone must win authorization regardless of score")
		}
	})

	t.Run("blocked rows are ignored", func(t *testing.T) {
		blocked := AlignmentResult{
			Bar:         Bar{Symbol: "BBCA", Close: 100},
			Status:      StatusBlocked,
			BlockReason: BlockSupplyOverhead,
		}
		results := ce.Score([]AlignmentResult{blocked}, []*Zone{monthlyZone})
		if len(results) != 0 {
			t.Errorf("expected no results for blocked rows, got %d", len(results))
		}
	})
}
