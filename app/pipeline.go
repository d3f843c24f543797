package app

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"htf-zone-scanner/config"
)

// PlanResult is the outcome of one pipeline run
type PlanResult struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	Trades      []Trade
	Regimes     map[string]string // weekly trend regime per traded symbol
}

// Empty reports whether the run produced no trades
func (pr *PlanResult) Empty() bool {
	return len(pr.Trades) == 0
}

// Pipeline runs the full decision chain: timeframes → zones → freshness →
// strength → alignment → confidence → execution plan. Every stage receiving
// an empty input short-circuits with an empty result; only schema violations
// are errors.
type Pipeline struct {
	cfg config.PipelineConfig

	timeframes *TimeframeBuilder
	detector   *ZoneDetector
	freshness  *ZoneFreshnessEngine
	strength   *ZoneStrengthScorer
	gate       *AlignmentGate
	confidence *ConfidenceEngine
	planner    *ExecutionPlanner
	regime     *TrendRegimeClassifier
}

// NewPipeline builds a pipeline from the configured parameters
func NewPipeline(cfg config.PipelineConfig) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		timeframes: NewTimeframeBuilder(),
		detector:   NewZoneDetector(cfg.DetectorWorkers),
		freshness:  NewZoneFreshnessEngine(cfg.MaxTouches),
		strength:   NewZoneStrengthScorer(),
		gate:       NewAlignmentGate(cfg.SupplyBlockPct),
		confidence: NewConfidenceEngine(),
		planner:    NewExecutionPlanner(cfg.TotalCapital, cfg.MaxRiskPerTradePct, cfg.MaxPortfolioRiskPct),
		regime:     NewTrendRegimeClassifier(50, 0.02),
	}
}

// Run executes the pipeline over a validated daily series. meta provides the
// sector/index classification consumed by the correlation overlay; missing
// symbols fall back to UNKNOWN.
func (p *Pipeline) Run(daily []Bar, meta map[string]SymbolMeta) (*PlanResult, error) {
	result := &PlanResult{
		RunID:       uuid.New(),
		GeneratedAt: time.Now(),
		Regimes:     make(map[string]string),
	}

	if len(daily) == 0 {
		log.Println("⚠️  No daily bars, nothing to do")
		return result, nil
	}

	// 1. Validation happens before any computation
	if err := p.timeframes.ValidateDailyBars(daily); err != nil {
		return nil, fmt.Errorf("pipeline aborted: %w", err)
	}

	// 2. HTF series
	weekly, monthly := p.timeframes.Build(daily)

	// 3. Demand and supply zones
	zones := p.detector.DetectAll(weekly, monthly)
	if len(zones) == 0 {
		log.Println("ℹ️  No zones detected, empty plan")
		return result, nil
	}

	// 4. Freshness, then strength: grading needs the freshness score
	p.freshness.Enrich(zones, daily)
	p.strength.Score(zones)

	// 5. Gate the latest daily bar of each symbol
	latest := latestBarPerSymbol(daily)
	aligned := p.gate.Evaluate(latest, zones)

	allowed := make([]AlignmentResult, 0, len(aligned))
	for _, r := range aligned {
		if r.Status == StatusAllowed {
			allowed = append(allowed, r)
		}
	}
	if len(allowed) == 0 {
		log.Println("ℹ️  No setups passed the alignment gate, empty plan")
		return result, nil
	}

	// 6. Confidence, with the minimum-confidence cut
	confident := p.confidence.Score(allowed, zones)
	kept := confident[:0]
	for _, c := range confident {
		if c.Confidence >= p.cfg.MinConfidence {
			kept = append(kept, c)
		}
	}
	confident = kept
	if len(confident) == 0 {
		log.Printf("ℹ️  No setups reached confidence %.0f, empty plan", p.cfg.MinConfidence)
		return result, nil
	}

	// 7. Capital allocation
	result.Trades = p.planner.BuildPlan(confident, meta)

	// Weekly regime context for the blotter
	for _, group := range groupBySymbol(weekly) {
		sym := group[0].Symbol
		if hasTrade(result.Trades, sym) {
			result.Regimes[sym] = p.regime.Classify(group)
		}
	}

	return result, nil
}

// latestBarPerSymbol keeps the last daily bar of each symbol, relying on the
// validated (symbol, trade_date) ordering.
func latestBarPerSymbol(daily []Bar) []Bar {
	var latest []Bar
	for _, group := range groupBySymbol(daily) {
		latest = append(latest, group[len(group)-1])
	}
	return latest
}

func hasTrade(trades []Trade, symbol string) bool {
	for _, t := range trades {
		if t.Symbol == symbol {
			return true
		}
	}
	return false
}
