// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aristath/hedgeguard/pkg/formulas"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir             string // Base directory for the calculations database (always absolute)
	LogLevel            string
	Port                int
	DevMode             bool
	Policy              PolicyConfig
	DefaultAlpha        float64 // Significance level used when a tail-risk request omits alpha
	RetentionDays       int     // Calculation log retention; 0 keeps everything
	MaintenanceSchedule string  // Cron expression for WAL checkpoint + retention
	Backup              *BackupConfig
}

// PolicyConfig is the default volatility-targeting policy applied to requests that omit it
type PolicyConfig struct {
	TargetAnnualizedVolatility float64
	MaxLeverage                float64
	TradingDaysPerYear         int
}

// BackupConfig holds Cloudflare R2 (S3-compatible) backup settings
type BackupConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Schedule        string // Cron expression
	RetentionDays   int
}

// Enabled reports whether all R2 credentials are present
func (b *BackupConfig) Enabled() bool {
	return b != nil && b.AccountID != "" && b.AccessKeyID != "" && b.SecretAccessKey != "" && b.BucketName != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("HEDGEGUARD_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("GO_PORT", 8001),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Policy: PolicyConfig{
			TargetAnnualizedVolatility: getEnvAsFloat("TARGET_ANNUALIZED_VOLATILITY", formulas.DefaultTargetAnnualizedVolatility),
			MaxLeverage:                getEnvAsFloat("MAX_LEVERAGE", formulas.DefaultMaxLeverage),
			TradingDaysPerYear:         getEnvAsInt("TRADING_DAYS_PER_YEAR", formulas.DefaultTradingDaysPerYear),
		},
		DefaultAlpha:        getEnvAsFloat("VAR_ALPHA", formulas.DefaultAlpha),
		RetentionDays:       getEnvAsInt("CALCULATION_RETENTION_DAYS", 30),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", "0 3 * * *"),
		Backup:              loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration can serve requests
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}

	// Reuse the formula's own validation with a dummy positive volatility
	sample := c.Policy.Request(0.01, 0)
	if _, err := formulas.CalculateVolatilityTarget(sample); err != nil {
		return fmt.Errorf("invalid volatility target policy: %w", err)
	}

	if !(c.DefaultAlpha >= 0 && c.DefaultAlpha <= 1) {
		return fmt.Errorf("VAR_ALPHA must be within [0, 1], got %v", c.DefaultAlpha)
	}

	if c.RetentionDays < 0 {
		return fmt.Errorf("CALCULATION_RETENTION_DAYS must not be negative, got %d", c.RetentionDays)
	}

	return nil
}

// Request builds a volatility-target request using this policy
func (p PolicyConfig) Request(predictedVolatility, portfolioValue float64) formulas.VolatilityTargetRequest {
	return formulas.VolatilityTargetRequest{
		PredictedVolatility:        predictedVolatility,
		PortfolioValue:             portfolioValue,
		TargetAnnualizedVolatility: p.TargetAnnualizedVolatility,
		MaxLeverage:                p.MaxLeverage,
		TradingDaysPerYear:         p.TradingDaysPerYear,
	}
}

// DefaultPolicy returns the standard 20% / 2x / 252-day policy
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		TargetAnnualizedVolatility: formulas.DefaultTargetAnnualizedVolatility,
		MaxLeverage:                formulas.DefaultMaxLeverage,
		TradingDaysPerYear:         formulas.DefaultTradingDaysPerYear,
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// loadBackupConfig loads R2 backup settings; missing credentials leave backups disabled
func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		BucketName:      getEnv("R2_BUCKET_NAME", ""),
		Schedule:        getEnv("BACKUP_SCHEDULE", "0 4 * * *"),
		RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 14),
	}
}
