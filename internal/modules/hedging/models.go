// Package hedging sizes positions with volatility targeting.
package hedging

import (
	"github.com/aristath/hedgeguard/pkg/formulas"
)

// RebalanceRequest asks for a volatility-targeted allocation.
// Nil policy fields fall back to the configured policy; an explicit zero is honoured.
type RebalanceRequest struct {
	PredictedVolatility        float64  `json:"predicted_volatility"`
	PortfolioValue             float64  `json:"portfolio_value"`
	TargetAnnualizedVolatility *float64 `json:"target_annualized_volatility,omitempty"`
	MaxLeverage                *float64 `json:"max_leverage,omitempty"`
	TradingDaysPerYear         *int     `json:"trading_days_per_year,omitempty"`
}

// RebalanceResult is the allocation plus the diagnostics behind it
type RebalanceResult struct {
	CalculationID string                           `json:"calculation_id,omitempty" msgpack:"-"`
	Request       formulas.VolatilityTargetRequest `json:"request" msgpack:"request"`
	formulas.VolatilityTargetResult
	TargetDailyVolatility float64 `json:"target_daily_volatility" msgpack:"target_daily_volatility"`
	UnconstrainedWeight   float64 `json:"unconstrained_weight" msgpack:"unconstrained_weight"`
	Capped                bool    `json:"capped" msgpack:"capped"`
}
