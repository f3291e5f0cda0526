package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Slow thresholds
const (
	SlowOperationThreshold = 30 * time.Second
	SlowQueryThreshold     = 5 * time.Second
)

// OperationTimer provides a defer-friendly way to measure operation duration
//
// Usage:
//
//	defer utils.OperationTimer("r2_backup", log)()
func OperationTimer(operation string, log zerolog.Logger) func() time.Duration {
	start := time.Now()

	return func() time.Duration {
		duration := time.Since(start)

		log.Debug().
			Str("operation", operation).
			Dur("duration_ms", duration).
			Msg("Operation completed")

		if duration > SlowOperationThreshold {
			log.Warn().
				Str("operation", operation).
				Dur("duration", duration).
				Msg("Slow operation detected")
		}

		return duration
	}
}

// MeasureDBQuery measures database query performance
func MeasureDBQuery(queryName string, log zerolog.Logger) func(rowsAffected int64) time.Duration {
	start := time.Now()

	return func(rowsAffected int64) time.Duration {
		duration := time.Since(start)

		log.Debug().
			Str("query", queryName).
			Dur("duration_ms", duration).
			Int64("rows_affected", rowsAffected).
			Msg("Database query completed")

		if duration > SlowQueryThreshold {
			log.Warn().
				Str("query", queryName).
				Dur("duration", duration).
				Int64("rows_affected", rowsAffected).
				Msg("Slow database query detected")
		}

		return duration
	}
}
