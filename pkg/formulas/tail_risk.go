package formulas

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultAlpha is the significance level used when none is configured (95% VaR)
const DefaultAlpha = 0.05

// RiskMetrics holds historical tail-risk figures for a return series.
// VaR and ES are expressed as returns (negative numbers are losses).
type RiskMetrics struct {
	VaR             float64 `json:"var" msgpack:"var"`
	ES              float64 `json:"es" msgpack:"es"`
	ConfidenceLevel string  `json:"confidence_level" msgpack:"confidence_level"`
}

// CalculateRiskMetrics computes historical Value at Risk and Expected Shortfall.
//
// Missing values (NaN, ±Inf) are dropped first. VaR is the 100*alpha percentile of
// the remaining returns, computed by percentileSorted (the same linear interpolation
// rule Percentile exposes), and ES is the arithmetic mean of every return less than or
// equal to VaR, clamped so that ES <= VaR always holds.
//
// Args:
//   - returns: Daily returns, order irrelevant
//   - alpha: Significance level in [0, 1] (e.g., 0.05 for 95% VaR)
//
// Returns:
//   - RiskMetrics with VaR, ES and a display label such as "95%"
//   - ErrInvalidArgument when alpha is NaN or outside [0, 1]
//   - ErrUndefinedResult when the tail is empty (no finite returns)
func CalculateRiskMetrics(returns []float64, alpha float64) (RiskMetrics, error) {
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return RiskMetrics{}, fmt.Errorf("alpha must be within [0, 1], got %v: %w", alpha, ErrInvalidArgument)
	}

	clean := DropMissing(returns)
	if len(clean) == 0 {
		return RiskMetrics{}, fmt.Errorf("no finite returns to build a tail from: %w", ErrUndefinedResult)
	}

	sort.Float64s(clean)
	valueAtRisk := percentileSorted(clean, 100*alpha)

	// clean is ascending, so the tail is a prefix
	tailLen := sort.Search(len(clean), func(i int) bool { return clean[i] > valueAtRisk })
	if tailLen == 0 {
		return RiskMetrics{}, fmt.Errorf("no return at or below VaR %v: %w", valueAtRisk, ErrUndefinedResult)
	}

	// Summation rounding can lift the mean of a flat tail above VaR
	expectedShortfall := math.Min(stat.Mean(clean[:tailLen], nil), valueAtRisk)

	return RiskMetrics{
		VaR:             valueAtRisk,
		ES:              expectedShortfall,
		ConfidenceLevel: ConfidenceLevelLabel(alpha),
	}, nil
}

// ConfidenceLevelLabel formats 1-alpha as a whole percentage, truncating any fraction
// (alpha 0.05 -> "95%", alpha 0.025 -> "97%"). Display only.
func ConfidenceLevelLabel(alpha float64) string {
	return fmt.Sprintf("%d%%", int((1-alpha)*100))
}
