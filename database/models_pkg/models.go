// Package models defines the persistence models for the zone scanner
// pipeline. They live in their own package so the per-domain repositories
// under database/ can share them without circular imports.
package models

import "time"

// DailyBarRow is one clean end-of-day OHLCV bar as stored by the ingestion
// job. The pipeline only reads this table.
type DailyBarRow struct {
	Symbol    string    `gorm:"column:symbol;primaryKey"`
	TradeDate time.Time `gorm:"column:trade_date;primaryKey"`
	Open      float64   `gorm:"column:open"`
	High      float64   `gorm:"column:high"`
	Low       float64   `gorm:"column:low"`
	Close     float64   `gorm:"column:close"`
	Volume    int64     `gorm:"column:volume"`
}

// TableName sets the table name for DailyBarRow
func (DailyBarRow) TableName() string {
	return "daily_bars"
}

// SymbolMetaRow carries the sector and index classification of a symbol,
// consumed by the correlation risk overlay.
type SymbolMetaRow struct {
	Symbol    string `gorm:"column:symbol;primaryKey"`
	Sector    string `gorm:"column:sector"`
	IndexName string `gorm:"column:index_name"`
}

// TableName sets the table name for SymbolMetaRow
func (SymbolMetaRow) TableName() string {
	return "symbol_meta"
}

// TradeBlotterRow is one flat trade instruction keyed by (trade_date,
// symbol). Nullable pointers hold values that may be coerced to NULL when
// the computed number is not finite.
type TradeBlotterRow struct {
	TradeDate time.Time `gorm:"column:trade_date;primaryKey"`
	Symbol    string    `gorm:"column:symbol;primaryKey"`

	RunID string `gorm:"column:run_id"`

	Entry    *float64 `gorm:"column:entry"`
	Stop     *float64 `gorm:"column:stop"`
	Target   *float64 `gorm:"column:target"`
	Quantity int64    `gorm:"column:quantity"`

	RiskPerTrade          *float64 `gorm:"column:risk_per_trade"`
	DirectionalConfidence *float64 `gorm:"column:directional_confidence"`
	AuthZoneTimeframe     string   `gorm:"column:auth_zone_timeframe"`
	AuthZonePattern       string   `gorm:"column:auth_zone_pattern"`
	Sector                string   `gorm:"column:sector"`
	IndexName             string   `gorm:"column:index_name"`
	WeeklyRegime          string   `gorm:"column:weekly_regime"`

	FinalQuantity *int64   `gorm:"column:final_quantity"`
	RealizedPnL   *float64 `gorm:"column:realized_pnl"`
	PartialExit   *bool    `gorm:"column:partial_exit"`
	FinalStop     *float64 `gorm:"column:final_stop"`

	BarsAlive         *int  `gorm:"column:bars_alive"`
	TimeStopTriggered *bool `gorm:"column:time_stop_triggered"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName sets the table name for TradeBlotterRow
func (TradeBlotterRow) TableName() string {
	return "trade_blotter_daily"
}
