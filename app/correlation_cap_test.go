package app

import "testing"

func capTrade(symbol, sector, index string, confidence float64) Trade {
	return Trade{Symbol: symbol, Sector: sector, IndexName: index, Confidence: confidence}
}

func TestCorrelationCapSector(t *testing.T) {
	cc := NewCorrelationCap(2, 3)

	trades := []Trade{
		capTrade("BBCA", "FINANCIALS", "LQ45", 90),
		capTrade("BBRI", "FINANCIALS", "IDX30", 85),
		capTrade("BMRI", "FINANCIALS", "KOMPAS100", 80),
		capTrade("TLKM", "TELCO", "JII", 70),
	}

	kept := cc.Apply(trades)
	if len(kept) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(kept))
	}

	for _, tr := range kept {
		if tr.Symbol == "BMRI" {
			t.Error("third financials trade must be dropped, weakest conviction first")
		}
	}
	if kept[0].Symbol != "BBCA" {
		t.Errorf("strongest conviction must survive first, got %s", kept[0].Symbol)
	}
}

func TestCorrelationCapIndex(t *testing.T) {
	cc := NewCorrelationCap(10, 3)

	trades := []Trade{
		capTrade("AAAA", "S1", "LQ45", 90),
		capTrade("BBBB", "S2", "LQ45", 85),
		capTrade("CCCC", "S3", "LQ45", 80),
		capTrade("DDDD", "S4", "LQ45", 75),
	}

	kept := cc.Apply(trades)
	if len(kept) != 3 {
		t.Fatalf("expected 3 trades under the index cap, got %d", len(kept))
	}
	for _, tr := range kept {
		if tr.Symbol == "DDDD" {
			t.Error("fourth LQ45 trade must be dropped")
		}
	}
}

func TestCorrelationCapIdempotent(t *testing.T) {
	cc := NewCorrelationCap(2, 3)

	trades := []Trade{
		capTrade("BBCA", "FINANCIALS", "LQ45", 90),
		capTrade("BBRI", "FINANCIALS", "LQ45", 85),
		capTrade("BMRI", "FINANCIALS", "LQ45", 80),
		capTrade("TLKM", "TELCO", "JII", 70),
	}

	once := cc.Apply(trades)
	twice := cc.Apply(once)

	if len(once) != len(twice) {
		t.Fatalf("re-applying changed the trade count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Symbol != twice[i].Symbol {
			t.Errorf("slot %d: %s vs %s", i, once[i].Symbol, twice[i].Symbol)
		}
	}
}

func TestCorrelationCapPreservesSizing(t *testing.T) {
	cc := NewCorrelationCap(2, 3)

	trades := []Trade{
		{Symbol: "BBCA", Sector: "FINANCIALS", IndexName: "LQ45", Confidence: 90, Quantity: 1826, RiskPerTrade: 10_000},
	}

	kept := cc.Apply(trades)
	if len(kept) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(kept))
	}
	if kept[0].Quantity != 1826 || kept[0].RiskPerTrade != 10_000 {
		t.Error("overlay must not recompute sizing")
	}
}
