package testing

import "math"

// Canonical return series used across tests.

// NewSevenDayReturns returns seven daily returns whose 5% historical VaR is -0.044 and ES -0.05
func NewSevenDayReturns() []float64 {
	return []float64{-0.05, -0.03, -0.01, 0, 0.01, 0.02, 0.03}
}

// NewFourDayReturns returns four daily returns.
// 5%: VaR -0.0355, ES -0.04. 10%: VaR -0.031, ES -0.04.
func NewFourDayReturns() []float64 {
	return []float64{0.02, -0.01, -0.04, 0.03}
}

// NewReturnsWithGaps returns NewFourDayReturns with missing observations (NaN) interleaved
func NewReturnsWithGaps() []float64 {
	return []float64{0.02, math.NaN(), -0.01, -0.04, math.NaN(), 0.03}
}

// NewNullableReturns converts a series to its JSON-friendly form, NaN becoming nil
func NewNullableReturns(series []float64) []*float64 {
	out := make([]*float64, len(series))
	for i, v := range series {
		if math.IsNaN(v) {
			continue
		}
		out[i] = floatPtr(v)
	}
	return out
}

func floatPtr(f float64) *float64 {
	return &f
}
