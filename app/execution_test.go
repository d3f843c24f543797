package app

import (
	"math"
	"testing"
	"time"
)

func confidentRow(symbol string, close, confidence float64, auth *Zone) ConfidenceResult {
	return ConfidenceResult{
		AlignmentResult: AlignmentResult{
			Bar:    Bar{Symbol: symbol, TradeDate: date(2025, time.April, 7), Close: close},
			Status: StatusAllowed,
		},
		Confidence: confidence,
		AuthZone:   auth,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildPlanSizing(t *testing.T) {
	ep := NewExecutionPlanner(1_000_000, 0.01, 0.06)

	auth := demandZone("ABC", TimeframeMonthly, 95, 102, GradeA)
	auth.Score = 100
	rows := []ConfidenceResult{confidentRow("ABC", 100, 78, auth)}

	trades := ep.BuildPlan(rows, nil)
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}

	tr := trades[0]
	if tr.Entry != 100 {
		t.Errorf("expected entry 100, got %.4f", tr.Entry)
	}
	if !almostEqual(tr.Stop, 94.525) {
		t.Errorf("expected stop 94.525, got %.6f", tr.Stop)
	}
	if tr.Quantity != 1826 {
		t.Errorf("expected quantity 1826, got %d", tr.Quantity)
	}
	if !almostEqual(tr.RiskPerTrade, 10_000) {
		t.Errorf("expected capital at risk 10000, got %.2f", tr.RiskPerTrade)
	}
	if !almostEqual(tr.Target, 100+2.5*5.475) {
		t.Errorf("expected target 113.6875, got %.6f", tr.Target)
	}
	if tr.Sector != "UNKNOWN" || tr.IndexName != "UNKNOWN" {
		t.Errorf("missing metadata must fall back to UNKNOWN, got %s/%s", tr.Sector, tr.IndexName)
	}
}

func TestConfidenceMultiplierTiers(t *testing.T) {
	tests := []struct {
		confidence float64
		expected   float64
	}{
		{90, 1.0},
		{75, 1.0},
		{74.9, 0.75},
		{65, 0.75},
		{64.9, 0.5},
		{55, 0.5},
		{54.9, 0.25},
		{0, 0.25},
	}

	for _, tt := range tests {
		if got := confidenceMultiplier(tt.confidence); got != tt.expected {
			t.Errorf("confidence %.1f: expected multiplier %.2f, got %.2f", tt.confidence, tt.expected, got)
		}
	}
}

func TestBuildPlanPortfolioRiskCap(t *testing.T) {
	// Budget 60,000; each full-conviction trade risks 10,000: exactly 6 fit
	ep := NewExecutionPlanner(1_000_000, 0.01, 0.06)

	auth := demandZone("", TimeframeMonthly, 95, 102, GradeA)
	auth.Score = 100

	symbols := []string{"AAAA", "BBBB", "CCCC", "DDDD", "EEEE", "FFFF", "GGGG", "HHHH"}
	var rows []ConfidenceResult
	for _, sym := range symbols {
		z := *auth
		z.Symbol = sym
		rows = append(rows, confidentRow(sym, 100, 80, &z))
	}

	trades := ep.BuildPlan(rows, nil)
	if len(trades) != 6 {
		t.Fatalf("expected 6 trades under the portfolio cap, got %d", len(trades))
	}

	total := 0.0
	for _, tr := range trades {
		total += tr.RiskPerTrade
	}
	if total > 1_000_000*0.06+1e-9 {
		t.Errorf("portfolio risk %.2f exceeds budget", total)
	}

	// Equal confidence resolves by symbol ascending
	for i, sym := range symbols[:6] {
		if trades[i].Symbol != sym {
			t.Errorf("slot %d: expected %s, got %s", i, sym, trades[i].Symbol)
		}
	}
}

func TestBuildPlanOrdersByConviction(t *testing.T) {
	ep := NewExecutionPlanner(1_000_000, 0.01, 0.06)

	authLow := demandZone("LOW", TimeframeWeekly, 95, 102, GradeB)
	authHigh := demandZone("HIGH", TimeframeMonthly, 95, 102, GradeA)

	rows := []ConfidenceResult{
		confidentRow("LOW", 100, 60, authLow),
		confidentRow("HIGH", 100, 85, authHigh),
	}

	trades := ep.BuildPlan(rows, nil)
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].Symbol != "HIGH" {
		t.Errorf("highest conviction must allocate first, got %s", trades[0].Symbol)
	}
	// 60 confidence lands in the 0.5 tier
	if !almostEqual(trades[1].RiskPerTrade, 5_000) {
		t.Errorf("expected scaled risk 5000, got %.2f", trades[1].RiskPerTrade)
	}
}

func TestBuildPlanSkipsDegenerateRows(t *testing.T) {
	ep := NewExecutionPlanner(1_000_000, 0.01, 0.06)

	below := demandZone("ABC", TimeframeMonthly, 105, 110, GradeA)

	tests := []struct {
		name string
		rows []ConfidenceResult
	}{
		{"nil auth zone", []ConfidenceResult{confidentRow("ABC", 100, 80, nil)}},
		{"entry at or below zone floor", []ConfidenceResult{confidentRow("ABC", 100, 80, below)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if trades := ep.BuildPlan(tt.rows, nil); len(trades) != 0 {
				t.Errorf("expected no trades, got %d", len(trades))
			}
		})
	}
}

func TestBuildPlanMetadataLookup(t *testing.T) {
	ep := NewExecutionPlanner(1_000_000, 0.01, 0.06)

	auth := demandZone("BBCA", TimeframeMonthly, 95, 102, GradeA)
	rows := []ConfidenceResult{confidentRow("BBCA", 100, 80, auth)}
	meta := map[string]SymbolMeta{
		"BBCA": {Sector: "FINANCIALS", IndexName: "LQ45"},
	}

	trades := ep.BuildPlan(rows, meta)
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Sector != "FINANCIALS" || trades[0].IndexName != "LQ45" {
		t.Errorf("metadata not propagated: %s/%s", trades[0].Sector, trades[0].IndexName)
	}
}
