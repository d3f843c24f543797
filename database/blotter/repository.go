// Package blotter persists the final execution plan. Rows are keyed by
// (trade_date, symbol) and upserted, so re-running the pipeline for the same
// day replaces the day's plan instead of duplicating it.
package blotter

import (
	"fmt"
	"log"
	"math"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	models "htf-zone-scanner/database/models_pkg"
)

// Repository handles trade blotter persistence
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new blotter repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertPlan writes the day's trade rows. Conflicts on (trade_date, symbol)
// update the existing row.
func (r *Repository) UpsertPlan(rows []models.TradeBlotterRow) error {
	if len(rows) == 0 {
		return nil
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "trade_date"}, {Name: "symbol"}},
		UpdateAll: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("UpsertPlan: %w", err)
	}

	log.Printf("✅ Upserted %d blotter rows", len(rows))
	return nil
}

// MoneyPtr rounds a computed money value to 2 decimal places and returns a
// pointer, coercing NaN and Infinity to nil so they reach the database as
// NULL rather than breaking the insert.
func MoneyPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return &rounded
}

// FloatPtr coerces NaN and Infinity to nil without rounding
func FloatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
