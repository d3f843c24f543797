// Package bars loads the clean daily bar table produced by the ingestion
// job. The loader re-validates the schema defensively: a missing column
// aborts the run before any computation starts.
package bars

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	models "htf-zone-scanner/database/models_pkg"
)

// Required columns of the daily bar table, checked before loading
var requiredColumns = []string{"symbol", "trade_date", "open", "high", "low", "close", "volume"}

// Repository reads daily bars and symbol metadata
type Repository struct {
	conn *sql.DB
}

// NewRepository creates a new bars repository
func NewRepository(conn *sql.DB) *Repository {
	return &Repository{conn: conn}
}

// LoadDailyBars returns the full daily series ordered by (symbol,
// trade_date). Symbols are uppercased and trimmed on the way out so the
// pipeline's validation contract holds even for sloppy upstream writes.
func (r *Repository) LoadDailyBars() ([]models.DailyBarRow, error) {
	if err := r.checkSchema(); err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(`
		SELECT symbol, trade_date, open, high, low, close, volume
		FROM daily_bars
		ORDER BY symbol, trade_date`)
	if err != nil {
		return nil, fmt.Errorf("LoadDailyBars: %w", err)
	}
	defer rows.Close()

	var bars []models.DailyBarRow
	for rows.Next() {
		var b models.DailyBarRow
		var tradeDate time.Time
		if err := rows.Scan(&b.Symbol, &tradeDate, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("LoadDailyBars scan: %w", err)
		}
		b.Symbol = strings.ToUpper(strings.TrimSpace(b.Symbol))
		b.TradeDate = tradeDate.UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LoadDailyBars rows: %w", err)
	}

	return bars, nil
}

// LoadSymbolMeta returns sector and index classification per symbol. A
// missing table is not fatal: the correlation overlay falls back to UNKNOWN
// buckets.
func (r *Repository) LoadSymbolMeta() (map[string]models.SymbolMetaRow, error) {
	rows, err := r.conn.Query(`SELECT symbol, sector, index_name FROM symbol_meta`)
	if err != nil {
		return map[string]models.SymbolMetaRow{}, nil
	}
	defer rows.Close()

	meta := make(map[string]models.SymbolMetaRow)
	for rows.Next() {
		var m models.SymbolMetaRow
		if err := rows.Scan(&m.Symbol, &m.Sector, &m.IndexName); err != nil {
			return nil, fmt.Errorf("LoadSymbolMeta scan: %w", err)
		}
		m.Symbol = strings.ToUpper(strings.TrimSpace(m.Symbol))
		meta[m.Symbol] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("LoadSymbolMeta rows: %w", err)
	}

	return meta, nil
}

// checkSchema verifies every required column exists on daily_bars and names
// all missing ones in one error.
func (r *Repository) checkSchema() error {
	rows, err := r.conn.Query(`
		SELECT column_name FROM information_schema.columns
		WHERE table_name = 'daily_bars'`)
	if err != nil {
		return fmt.Errorf("checkSchema: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("checkSchema scan: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("checkSchema rows: %w", err)
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("daily_bars is missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}
