package hedging

import (
	"github.com/aristath/hedgeguard/internal/config"
	"github.com/aristath/hedgeguard/internal/events"
	"github.com/aristath/hedgeguard/internal/modules/calculations"
	"github.com/aristath/hedgeguard/pkg/formulas"
	"github.com/rs/zerolog"
)

// CalculationRecorder stores served calculations
type CalculationRecorder interface {
	Record(kind calculations.Kind, input, output interface{}, calcErr error) string
}

// EventEmitter publishes typed events
type EventEmitter interface {
	EmitTyped(module string, data events.EventData)
}

// Service computes volatility-targeted rebalances against a configured policy
type Service struct {
	policy   config.PolicyConfig
	recorder CalculationRecorder
	events   EventEmitter
	log      zerolog.Logger
}

// NewService creates a new hedging service. recorder and emitter may be nil.
func NewService(policy config.PolicyConfig, recorder CalculationRecorder, emitter EventEmitter, log zerolog.Logger) *Service {
	return &Service{
		policy:   policy,
		recorder: recorder,
		events:   emitter,
		log:      log.With().Str("service", "hedging").Logger(),
	}
}

// Policy returns the configured default policy
func (s *Service) Policy() config.PolicyConfig {
	return s.policy
}

// Resolve applies the configured policy to the fields the request leaves unset
func (s *Service) Resolve(req RebalanceRequest) formulas.VolatilityTargetRequest {
	resolved := s.policy.Request(req.PredictedVolatility, req.PortfolioValue)
	if req.TargetAnnualizedVolatility != nil {
		resolved.TargetAnnualizedVolatility = *req.TargetAnnualizedVolatility
	}
	if req.MaxLeverage != nil {
		resolved.MaxLeverage = *req.MaxLeverage
	}
	if req.TradingDaysPerYear != nil {
		resolved.TradingDaysPerYear = *req.TradingDaysPerYear
	}
	return resolved
}

// Rebalance sizes the position for req. Errors wrap formulas.ErrInvalidArgument.
func (s *Service) Rebalance(req RebalanceRequest) (*RebalanceResult, error) {
	resolved := s.Resolve(req)

	result, err := formulas.CalculateVolatilityTarget(resolved)
	if err != nil {
		s.record(resolved, nil, err)
		return nil, err
	}

	// Validation already passed, so this cannot fail
	unconstrained, _ := formulas.UnconstrainedVolatilityWeight(resolved)

	out := &RebalanceResult{
		Request:                resolved,
		VolatilityTargetResult: result,
		TargetDailyVolatility:  formulas.TargetDailyVolatility(resolved.TargetAnnualizedVolatility, resolved.TradingDaysPerYear),
		UnconstrainedWeight:    unconstrained,
		Capped:                 unconstrained > resolved.MaxLeverage,
	}
	out.CalculationID = s.record(resolved, out, nil)

	if out.Capped {
		s.log.Debug().
			Float64("unconstrained_weight", unconstrained).
			Float64("max_leverage", resolved.MaxLeverage).
			Msg("Target weight capped at max leverage")
	}

	if s.events != nil {
		s.events.EmitTyped("hedging", &events.RebalanceComputedData{
			CalculationID:       out.CalculationID,
			PredictedVolatility: resolved.PredictedVolatility,
			TargetWeight:        result.TargetWeight,
			PositionValue:       result.PositionValue,
			CashValue:           result.CashValue,
			Capped:              out.Capped,
		})
	}

	return out, nil
}

func (s *Service) record(input formulas.VolatilityTargetRequest, output *RebalanceResult, calcErr error) string {
	if s.recorder == nil {
		return ""
	}
	if output == nil {
		return s.recorder.Record(calculations.KindRebalance, input, nil, calcErr)
	}
	return s.recorder.Record(calculations.KindRebalance, input, output, calcErr)
}
