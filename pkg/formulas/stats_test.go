package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 0.002, Mean([]float64{0.01, -0.01, 0.006, 0.002}), 1e-12)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{0.01}))
	// sample std of {1,2,3,4} = sqrt(5/3)
	assert.InDelta(t, math.Sqrt(5.0/3.0), StdDev([]float64{1, 2, 3, 4}), 1e-12)
}

func TestAnnualizedVolatility(t *testing.T) {
	tests := []struct {
		name      string
		returns   []float64
		days      int
		expected  float64
		tolerance float64
	}{
		{
			name:      "empty returns",
			returns:   []float64{},
			days:      252,
			expected:  0,
			tolerance: 0,
		},
		{
			name:      "alternating one percent moves",
			returns:   []float64{0.01, -0.01, 0.01, -0.01},
			days:      252,
			expected:  math.Sqrt(0.0004/3) * math.Sqrt(252),
			tolerance: 1e-12,
		},
		{
			name:      "invalid trading days",
			returns:   []float64{0.01, -0.01},
			days:      0,
			expected:  0,
			tolerance: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, AnnualizedVolatility(tt.returns, tt.days), tt.tolerance)
		})
	}
}
