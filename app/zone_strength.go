package app

import "log"

// Zone grades
const (
	GradeReject = "REJECT"
	GradeC      = "C"
	GradeB      = "B"
	GradeA      = "A"
)

// Grade bin boundaries over the composite score
const (
	GradeCMin = 50
	GradeBMin = 70
	GradeAMin = 85
)

// ZoneStrengthScorer combines timeframe, pattern, base quality, departure
// efficiency and freshness into a composite score and a letter grade.
// Re-running it over an already scored zone set reproduces identical results.
type ZoneStrengthScorer struct{}

// NewZoneStrengthScorer creates a new strength scorer
func NewZoneStrengthScorer() *ZoneStrengthScorer {
	return &ZoneStrengthScorer{}
}

// Score fills the component scores, composite score and grade of every zone
// in place. Exhausted zones are force-graded REJECT regardless of score; the
// override is applied last and unconditionally.
func (ss *ZoneStrengthScorer) Score(zones []*Zone) {
	if len(zones) == 0 {
		return
	}

	graded := map[string]int{}
	for _, z := range zones {
		z.ScoreTimeframe = scoreTimeframe(z.Timeframe)
		z.ScorePattern = scorePattern(z.ZoneType, z.Pattern)
		z.ScoreBase = scoreBaseQuality(z.BaseCandles)
		z.ScoreDeparture = scoreDepartureEfficiency(z.BaseCandles)

		z.Score = z.ScoreTimeframe + z.ScorePattern + z.ScoreBase + z.ScoreDeparture + z.FreshnessScore
		z.Grade = gradeForScore(z.Score)

		if z.Exhausted {
			z.Grade = GradeReject
		}
		graded[z.Grade]++
	}

	log.Printf("🏷️  Zones graded: A=%d B=%d C=%d REJECT=%d",
		graded[GradeA], graded[GradeB], graded[GradeC], graded[GradeReject])
}

func scoreTimeframe(tf string) int {
	if tf == TimeframeMonthly {
		return 25
	}
	return 15
}

// scorePattern rewards the primary pattern of each zone type (DBR for
// demand, RBD for supply) over the continuation variants.
func scorePattern(zoneType, pattern string) int {
	if zoneType == ZoneTypeDemand {
		if pattern == PatternDBR {
			return 25
		}
		return 15
	}
	if pattern == PatternRBD {
		return 25
	}
	return 15
}

// scoreBaseQuality: tighter consolidations rank higher
func scoreBaseQuality(baseCandles int) int {
	switch {
	case baseCandles <= 2:
		return 20
	case baseCandles <= 4:
		return 12
	case baseCandles <= 6:
		return 5
	default:
		return 0
	}
}

// scoreDepartureEfficiency shares the base-candle banding: a short base
// implies the impulse left with little hesitation.
func scoreDepartureEfficiency(baseCandles int) int {
	switch {
	case baseCandles <= 2:
		return 20
	case baseCandles <= 4:
		return 12
	case baseCandles <= 6:
		return 5
	default:
		return 0
	}
}

func gradeForScore(score int) string {
	switch {
	case score >= GradeAMin:
		return GradeA
	case score >= GradeBMin:
		return GradeB
	case score >= GradeCMin:
		return GradeC
	default:
		return GradeReject
	}
}
