package app

// Trend regimes
const (
	RegimeBull  = "BULL"
	RegimeBear  = "BEAR"
	RegimeRange = "RANGE"
)

// TrendRegimeClassifier determines the HTF trend regime from price structure
type TrendRegimeClassifier struct {
	lookback     int
	thresholdPct float64
}

// NewTrendRegimeClassifier creates a new regime classifier
func NewTrendRegimeClassifier(lookback int, thresholdPct float64) *TrendRegimeClassifier {
	if lookback <= 0 {
		lookback = 50
	}
	if thresholdPct <= 0 {
		thresholdPct = 0.02
	}
	return &TrendRegimeClassifier{lookback: lookback, thresholdPct: thresholdPct}
}

// Classify labels one symbol's HTF series BULL, BEAR or RANGE. A series
// shorter than the lookback, or one whose total range is below the
// threshold, is RANGE.
func (rc *TrendRegimeClassifier) Classify(series []Bar) string {
	if len(series) < rc.lookback {
		return RegimeRange
	}

	recent := series[len(series)-rc.lookback:]
	high, low := rangeExtremes(recent)
	lastClose := recent[len(recent)-1].Close

	if low <= 0 {
		return RegimeRange
	}
	if (high-low)/low < rc.thresholdPct {
		return RegimeRange
	}

	mid := (high + low) / 2
	if lastClose > mid {
		return RegimeBull
	}
	return RegimeBear
}
