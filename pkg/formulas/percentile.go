package formulas

import (
	"math"
	"sort"
)

// DropMissing returns a copy of data without NaN and infinite entries.
// The input slice is never modified.
func DropMissing(data []float64) []float64 {
	clean := make([]float64, 0, len(data))
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
	}
	return clean
}

// Percentile returns the p-th percentile (0 <= p <= 100) of data using linear
// interpolation between the two closest order statistics.
//
// For n sorted observations x[0..n-1] the rank is h = (n-1)*p/100 and the result is
//
//	x[floor(h)] + (h - floor(h)) * (x[floor(h)+1] - x[floor(h)])
//
// This matches the default "linear" method of the common numeric libraries, so
// p=0 yields the minimum and p=100 the maximum. Nearest-rank variants give different
// values and are intentionally not offered here.
//
// Returns NaN for empty data or p outside [0, 100]. Callers are expected to drop
// missing values first.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 || math.IsNaN(p) || p < 0 || p > 100 {
		return math.NaN()
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	return percentileSorted(sorted, p)
}

// percentileSorted is Percentile over data that is already sorted ascending
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * p / 100
	lower := int(math.Floor(h))
	if lower >= n-1 {
		return sorted[n-1]
	}

	frac := h - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
