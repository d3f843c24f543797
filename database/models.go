// Package database provides storage access for the zone scanner pipeline.
//
// Two layers coexist on purpose:
//   - a raw database/sql connection (connection.go) used by the bar loader,
//     which streams the full daily series with one ordered scan
//   - a GORM connection used by the blotter repository, which needs the
//     ON CONFLICT upsert machinery
//
// All persistence models live in the models_pkg package and are re-exported
// here as type aliases.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "htf-zone-scanner/database/models_pkg"
)

// Database holds the GORM database connection
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host, port, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates the blotter table if missing. The daily bar and symbol
// metadata tables belong to the ingestion job and are never migrated here.
func (d *Database) Migrate() error {
	return d.db.AutoMigrate(&models.TradeBlotterRow{})
}

// Type aliases re-exported for callers that import database directly
type DailyBarRow = models.DailyBarRow
type SymbolMetaRow = models.SymbolMetaRow
type TradeBlotterRow = models.TradeBlotterRow
