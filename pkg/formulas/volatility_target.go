package formulas

import (
	"fmt"
	"math"
)

// Volatility targeting defaults
const (
	DefaultTargetAnnualizedVolatility = 0.20
	DefaultMaxLeverage                = 2.0
	DefaultTradingDaysPerYear         = 252
)

// VolatilityTargetRequest describes one volatility-targeting rebalance
type VolatilityTargetRequest struct {
	// PredictedVolatility is the predicted next-period (daily) standard deviation of returns
	PredictedVolatility float64 `json:"predicted_volatility" msgpack:"predicted_volatility"`
	// PortfolioValue is the total portfolio value; it is not validated and may be zero or negative
	PortfolioValue             float64 `json:"portfolio_value" msgpack:"portfolio_value"`
	TargetAnnualizedVolatility float64 `json:"target_annualized_volatility" msgpack:"target_annualized_volatility"`
	MaxLeverage                float64 `json:"max_leverage" msgpack:"max_leverage"`
	TradingDaysPerYear         int     `json:"trading_days_per_year" msgpack:"trading_days_per_year"`
}

// VolatilityTargetResult is the allocation produced by CalculateVolatilityTarget
type VolatilityTargetResult struct {
	PositionValue float64 `json:"position_value" msgpack:"position_value"`
	CashValue     float64 `json:"cash_value" msgpack:"cash_value"`
	TargetWeight  float64 `json:"target_weight" msgpack:"target_weight"`
}

// NewVolatilityTargetRequest builds a request with the default policy
// (20% annualized target, 2x leverage cap, 252 trading days).
func NewVolatilityTargetRequest(predictedVolatility, portfolioValue float64) VolatilityTargetRequest {
	return VolatilityTargetRequest{
		PredictedVolatility:        predictedVolatility,
		PortfolioValue:             portfolioValue,
		TargetAnnualizedVolatility: DefaultTargetAnnualizedVolatility,
		MaxLeverage:                DefaultMaxLeverage,
		TradingDaysPerYear:         DefaultTradingDaysPerYear,
	}
}

// TargetDailyVolatility de-annualizes a volatility target:
// annualized / sqrt(tradingDaysPerYear)
func TargetDailyVolatility(targetAnnualizedVolatility float64, tradingDaysPerYear int) float64 {
	return targetAnnualizedVolatility / math.Sqrt(float64(tradingDaysPerYear))
}

// UnconstrainedVolatilityWeight returns the inverse-volatility weight before the leverage cap
func UnconstrainedVolatilityWeight(req VolatilityTargetRequest) (float64, error) {
	if err := validateVolatilityTarget(req); err != nil {
		return 0, err
	}
	weight := TargetDailyVolatility(req.TargetAnnualizedVolatility, req.TradingDaysPerYear) / req.PredictedVolatility
	if math.IsInf(weight, 0) {
		return 0, fmt.Errorf("predicted volatility %v is too small to size against: %w", req.PredictedVolatility, ErrInvalidArgument)
	}
	return weight, nil
}

// CalculateVolatilityTarget sizes a position inversely to predicted volatility so that
// the position's risk tracks the annualized target.
//
// Formula:
//
//	weight   = min((target / sqrt(tradingDays)) / predictedVolatility, maxLeverage)
//	position = weight * portfolioValue
//	cash     = portfolioValue - position
//
// The leverage cap has no matching floor: a very large predicted volatility drives the
// weight towards zero. Negative cash means the position is financed with borrowing.
//
// Returns ErrInvalidArgument when PredictedVolatility <= 0, TargetAnnualizedVolatility < 0,
// TradingDaysPerYear <= 0, MaxLeverage < 0 or the unconstrained weight overflows.
// Returns ErrUndefinedResult when the position value is not finite.
// Together these keep 0 <= TargetWeight <= MaxLeverage.
func CalculateVolatilityTarget(req VolatilityTargetRequest) (VolatilityTargetResult, error) {
	weight, err := UnconstrainedVolatilityWeight(req)
	if err != nil {
		return VolatilityTargetResult{}, err
	}

	weight = math.Min(weight, req.MaxLeverage)

	positionValue := weight * req.PortfolioValue
	if math.IsInf(positionValue, 0) || math.IsNaN(positionValue) {
		return VolatilityTargetResult{}, fmt.Errorf("position value overflows for portfolio value %v: %w", req.PortfolioValue, ErrUndefinedResult)
	}
	return VolatilityTargetResult{
		PositionValue: positionValue,
		CashValue:     req.PortfolioValue - positionValue,
		TargetWeight:  weight,
	}, nil
}

func validateVolatilityTarget(req VolatilityTargetRequest) error {
	// !(x > 0) also rejects NaN
	if !(req.PredictedVolatility > 0) {
		return fmt.Errorf("predicted volatility must be positive, got %v: %w", req.PredictedVolatility, ErrInvalidArgument)
	}
	if !(req.TargetAnnualizedVolatility >= 0) || math.IsInf(req.TargetAnnualizedVolatility, 1) {
		return fmt.Errorf("target annualized volatility must be finite and not negative, got %v: %w", req.TargetAnnualizedVolatility, ErrInvalidArgument)
	}
	if req.TradingDaysPerYear <= 0 {
		return fmt.Errorf("trading days per year must be positive, got %d: %w", req.TradingDaysPerYear, ErrInvalidArgument)
	}
	if !(req.MaxLeverage >= 0) {
		return fmt.Errorf("max leverage must not be negative, got %v: %w", req.MaxLeverage, ErrInvalidArgument)
	}
	return nil
}
