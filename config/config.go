package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPassword string
	RedisPort     string

	// Pipeline configuration
	Pipeline PipelineConfig
}

// PipelineConfig holds the decision pipeline parameters and risk caps
type PipelineConfig struct {
	// Capital Allocation
	TotalCapital        float64
	MaxRiskPerTradePct  float64 // Fraction of capital risked per trade at full conviction
	MaxPortfolioRiskPct float64 // Fraction of capital risked across the whole plan

	// Alignment
	SupplyBlockPct float64 // Max distance to an overhead supply zone that blocks entries

	// Confidence
	MinConfidence float64 // Setups below this never reach the planner

	// Zone Freshness
	MaxTouches int // Touch count at which a zone is considered exhausted

	// Correlation Risk
	MaxTradesPerSector int
	MaxTradesPerIndex  int

	// Exit Management
	R1Multiple float64 // Partial exit level in R
	R2Multiple float64 // Trailing activation level in R
	TrailPct   float64 // Trailing stop offset in R once activated

	// Time Stop
	MaxBarsAlive int

	// Parallelism
	DetectorWorkers int // Worker goroutines for per-symbol zone detection
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "zone_scanner"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "scanner"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "scanner123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Pipeline configuration
		Pipeline: PipelineConfig{
			TotalCapital:        getEnvFloat("PIPELINE_TOTAL_CAPITAL", 1_000_000),
			MaxRiskPerTradePct:  getEnvFloat("PIPELINE_MAX_RISK_PER_TRADE_PCT", 0.01),
			MaxPortfolioRiskPct: getEnvFloat("PIPELINE_MAX_PORTFOLIO_RISK_PCT", 0.06),

			SupplyBlockPct: getEnvFloat("PIPELINE_SUPPLY_BLOCK_PCT", 0.10),

			MinConfidence: getEnvFloat("PIPELINE_MIN_CONFIDENCE", 55.0),

			MaxTouches: getEnvInt("PIPELINE_MAX_TOUCHES", 3),

			MaxTradesPerSector: getEnvInt("PIPELINE_MAX_TRADES_PER_SECTOR", 2),
			MaxTradesPerIndex:  getEnvInt("PIPELINE_MAX_TRADES_PER_INDEX", 3),

			R1Multiple: getEnvFloat("PIPELINE_R1_MULTIPLE", 1.0),
			R2Multiple: getEnvFloat("PIPELINE_R2_MULTIPLE", 2.0),
			TrailPct:   getEnvFloat("PIPELINE_TRAIL_PCT", 0.5),

			MaxBarsAlive: getEnvInt("PIPELINE_MAX_BARS_ALIVE", 10),

			DetectorWorkers: getEnvInt("PIPELINE_DETECTOR_WORKERS", 4),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
