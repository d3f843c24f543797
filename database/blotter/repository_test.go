package blotter

import (
	"math"
	"testing"
)

func TestMoneyPtr(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected *float64
	}{
		{"rounds half up", 94.5251, ptr(94.53)},
		{"keeps two decimals", 113.6875, ptr(113.69)},
		{"clean value untouched", 10000, ptr(10000)},
		{"negative pnl", -512.345, ptr(-512.35)},
		{"NaN becomes nil", math.NaN(), nil},
		{"+Inf becomes nil", math.Inf(1), nil},
		{"-Inf becomes nil", math.Inf(-1), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoneyPtr(tt.in)
			if (got == nil) != (tt.expected == nil) {
				t.Fatalf("expected nil=%v, got nil=%v", tt.expected == nil, got == nil)
			}
			if got != nil && *got != *tt.expected {
				t.Errorf("expected %.2f, got %.2f", *tt.expected, *got)
			}
		})
	}
}

func TestFloatPtr(t *testing.T) {
	if got := FloatPtr(78.125); got == nil || *got != 78.125 {
		t.Error("finite value must pass through unrounded")
	}
	if FloatPtr(math.NaN()) != nil {
		t.Error("NaN must become nil")
	}
}

func ptr(v float64) *float64 {
	return &v
}
