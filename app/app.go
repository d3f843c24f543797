package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"htf-zone-scanner/cache"
	"htf-zone-scanner/config"
	"htf-zone-scanner/database"
	"htf-zone-scanner/database/bars"
	"htf-zone-scanner/database/blotter"
)

// App wires storage, cache and the decision pipeline into one batch run
type App struct {
	config *config.Config

	rawDB  *database.DB
	gormDB *database.Database
	redis  *cache.RedisClient

	barRepo     *bars.Repository
	blotterRepo *blotter.Repository

	pipeline    *Pipeline
	correlation *CorrelationCap
	exits       *PartialExitTrailing
	timeStop    *TimeStop
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{
		config:      cfg,
		pipeline:    NewPipeline(cfg.Pipeline),
		correlation: NewCorrelationCap(cfg.Pipeline.MaxTradesPerSector, cfg.Pipeline.MaxTradesPerIndex),
		exits:       NewPartialExitTrailing(cfg.Pipeline.R1Multiple, cfg.Pipeline.R2Multiple, cfg.Pipeline.TrailPct),
		timeStop:    NewTimeStop(cfg.Pipeline.MaxBarsAlive),
	}
}

// Start runs the daily batch: load bars, run the pipeline, apply the risk
// overlays and persist the blotter. One shot, no loops.
func (a *App) Start() error {
	log.Println("🚀 Running daily zone scanner pipeline")

	if err := a.connect(); err != nil {
		return err
	}
	defer a.shutdown()

	// 1. Load inputs
	barRows, err := a.barRepo.LoadDailyBars()
	if err != nil {
		return fmt.Errorf("loading daily bars: %w", err)
	}
	metaRows, err := a.barRepo.LoadSymbolMeta()
	if err != nil {
		return fmt.Errorf("loading symbol metadata: %w", err)
	}

	daily := make([]Bar, 0, len(barRows))
	for _, row := range barRows {
		daily = append(daily, Bar{
			Symbol:    row.Symbol,
			TradeDate: row.TradeDate,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
			Timeframe: TimeframeDaily,
		})
	}

	meta := make(map[string]SymbolMeta, len(metaRows))
	for sym, m := range metaRows {
		meta[sym] = SymbolMeta{Sector: m.Sector, IndexName: m.IndexName}
	}

	// 2. Decision pipeline
	result, err := a.pipeline.Run(daily, meta)
	if err != nil {
		return err
	}
	if result.Empty() {
		log.Println("⚠️  No trades generated")
		return nil
	}

	// 3. Risk overlays on the planner's output
	capped := a.correlation.Apply(result.Trades)
	managed := a.exits.Apply(capped, daily)
	timed := a.timeStop.Apply(capped, daily)

	// 4. Persist and cache
	rows := a.buildBlotterRows(result, capped, managed, timed)
	if err := a.blotterRepo.UpsertPlan(rows); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.redis.StorePlan(ctx, result.GeneratedAt, rows); err != nil {
		log.Printf("⚠️  Plan cache write failed: %v", err)
	}

	log.Printf("✅ Pipeline run %s complete: %d trades persisted", result.RunID, len(rows))
	return nil
}

func (a *App) connect() error {
	log.Println("🗄️  Connecting to database...")

	rawDB, err := database.NewConnection(database.Config{
		Host:     a.config.DatabaseHost,
		Port:     a.config.DatabasePort,
		User:     a.config.DatabaseUser,
		Password: a.config.DatabasePassword,
		DBName:   a.config.DatabaseName,
	})
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.rawDB = rawDB
	a.barRepo = bars.NewRepository(rawDB.GetConn())

	gormDB, err := database.Connect(
		a.config.DatabaseHost,
		a.config.DatabasePort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("gorm connection failed: %w", err)
	}
	if err := gormDB.Migrate(); err != nil {
		return fmt.Errorf("blotter migration failed: %w", err)
	}
	a.gormDB = gormDB
	a.blotterRepo = blotter.NewRepository(gormDB.DB())

	log.Println("🧠 Connecting to Redis...")
	a.redis = cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)

	return nil
}

func (a *App) shutdown() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.gormDB != nil {
		a.gormDB.Close()
	}
	if a.rawDB != nil {
		a.rawDB.Close()
	}
}

// buildBlotterRows flattens the overlay views into one row per trade
func (a *App) buildBlotterRows(result *PlanResult, trades []Trade, managed []ManagedTrade, timed []TimedTrade) []database.TradeBlotterRow {
	managedBySymbol := make(map[string]ManagedTrade, len(managed))
	for _, m := range managed {
		managedBySymbol[m.Symbol] = m
	}
	timedBySymbol := make(map[string]TimedTrade, len(timed))
	for _, t := range timed {
		timedBySymbol[t.Symbol] = t
	}

	tradeDate := time.Date(
		result.GeneratedAt.Year(), result.GeneratedAt.Month(), result.GeneratedAt.Day(),
		0, 0, 0, 0, time.UTC,
	)

	rows := make([]database.TradeBlotterRow, 0, len(trades))
	for _, t := range trades {
		row := database.TradeBlotterRow{
			TradeDate:             tradeDate,
			Symbol:                t.Symbol,
			RunID:                 result.RunID.String(),
			Entry:                 blotter.MoneyPtr(t.Entry),
			Stop:                  blotter.MoneyPtr(t.Stop),
			Target:                blotter.MoneyPtr(t.Target),
			Quantity:              t.Quantity,
			RiskPerTrade:          blotter.MoneyPtr(t.RiskPerTrade),
			DirectionalConfidence: blotter.FloatPtr(t.Confidence),
			AuthZoneTimeframe:     t.AuthZoneTimeframe,
			AuthZonePattern:       t.AuthZonePattern,
			Sector:                t.Sector,
			IndexName:             t.IndexName,
			WeeklyRegime:          result.Regimes[t.Symbol],
		}

		if m, ok := managedBySymbol[t.Symbol]; ok {
			finalQty := m.FinalQuantity
			partial := m.PartialExit
			row.FinalQuantity = &finalQty
			row.RealizedPnL = blotter.MoneyPtr(m.RealizedPnL)
			row.PartialExit = &partial
			row.FinalStop = blotter.MoneyPtr(m.FinalStop)
		}
		if tt, ok := timedBySymbol[t.Symbol]; ok {
			barsAlive := tt.BarsAlive
			triggered := tt.TimeStopTriggered
			row.BarsAlive = &barsAlive
			row.TimeStopTriggered = &triggered
		}

		rows = append(rows, row)
	}

	return rows
}
