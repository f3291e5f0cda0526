// Package risk serves historical Value at Risk and Expected Shortfall over named return series.
package risk

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/hedgeguard/pkg/formulas"
)

// DefaultReturnColumn is the column read when a request does not name one
const DefaultReturnColumn = "QQQ_Return"

// ReturnTable holds named columns of periodic returns. Missing entries are NaN.
type ReturnTable map[string][]float64

// NewReturnTableFromNullable converts JSON-style nullable columns to a ReturnTable, mapping nil to NaN
func NewReturnTableFromNullable(columns map[string][]*float64) ReturnTable {
	table := make(ReturnTable, len(columns))
	for name, values := range columns {
		series := make([]float64, len(values))
		for i, v := range values {
			if v == nil {
				series[i] = math.NaN()
			} else {
				series[i] = *v
			}
		}
		table[name] = series
	}
	return table
}

// Column returns the named series or ErrMissingData
func (t ReturnTable) Column(name string) ([]float64, error) {
	series, ok := t[name]
	if !ok {
		return nil, fmt.Errorf("return column %q not found: %w", name, formulas.ErrMissingData)
	}
	return series, nil
}

// Columns returns the column names in sorted order
func (t ReturnTable) Columns() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SeriesSummary describes the return series a report was computed from
type SeriesSummary struct {
	Observations         int     `json:"observations" msgpack:"observations"`
	MissingValues        int     `json:"missing_values" msgpack:"missing_values"`
	Mean                 float64 `json:"mean" msgpack:"mean"`
	DailyVolatility      float64 `json:"daily_volatility" msgpack:"daily_volatility"`
	AnnualizedVolatility float64 `json:"annualized_volatility" msgpack:"annualized_volatility"`
	Min                  float64 `json:"min" msgpack:"min"`
	Max                  float64 `json:"max" msgpack:"max"`
}

// AlphaMetrics pairs a significance level with its metrics
type AlphaMetrics struct {
	Alpha float64 `json:"alpha" msgpack:"alpha"`
	formulas.RiskMetrics
}

// Report is the multi-alpha tail-risk view of one return column
type Report struct {
	Column  string         `json:"column" msgpack:"column"`
	Summary SeriesSummary  `json:"summary" msgpack:"summary"`
	Metrics []AlphaMetrics `json:"metrics" msgpack:"metrics"`
}
