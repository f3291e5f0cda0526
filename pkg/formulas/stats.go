package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// AnnualizedVolatility calculates realized annualized volatility from daily returns
// Formula: Std Dev of Daily Returns × sqrt(tradingDaysPerYear)
func AnnualizedVolatility(dailyReturns []float64, tradingDaysPerYear int) float64 {
	if len(dailyReturns) < 2 || tradingDaysPerYear <= 0 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(float64(tradingDaysPerYear))
}
