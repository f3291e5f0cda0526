package risk

import (
	"fmt"
	"math"

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

// tailRiskInput is the recorded input of a tail-risk calculation. Missing values are nil.
type tailRiskInput struct {
	Column  string     `msgpack:"column"`
	Alphas  []float64  `msgpack:"alphas"`
	Returns []*float64 `msgpack:"returns"`
}

// Service computes tail-risk metrics for named return columns
type Service struct {
	defaultAlpha       float64
	tradingDaysPerYear int
	recorder           CalculationRecorder
	events             EventEmitter
	log                zerolog.Logger
}

// NewService creates a new risk service. recorder and emitter may be nil.
func NewService(defaultAlpha float64, tradingDaysPerYear int, recorder CalculationRecorder, emitter EventEmitter, log zerolog.Logger) *Service {
	return &Service{
		defaultAlpha:       defaultAlpha,
		tradingDaysPerYear: tradingDaysPerYear,
		recorder:           recorder,
		events:             emitter,
		log:                log.With().Str("service", "risk").Logger(),
	}
}

// DefaultAlpha returns the significance level used when a request omits one
func (s *Service) DefaultAlpha() float64 {
	return s.defaultAlpha
}

// ComputeRiskMetrics computes VaR and ES for one column of table.
// Returns ErrMissingData when the column is absent.
func (s *Service) ComputeRiskMetrics(table ReturnTable, column string, alpha float64) (formulas.RiskMetrics, error) {
	series, err := table.Column(column)
	if err != nil {
		s.record(column, []float64{alpha}, nil, nil, err)
		return formulas.RiskMetrics{}, err
	}

	metrics, err := formulas.CalculateRiskMetrics(series, alpha)
	id := s.record(column, []float64{alpha}, series, metrics, err)
	if err != nil {
		s.log.Debug().Err(err).Str("column", column).Float64("alpha", alpha).Msg("Tail-risk calculation rejected")
		return formulas.RiskMetrics{}, err
	}

	s.emit(&events.RiskMetricsComputedData{
		CalculationID:   id,
		Column:          column,
		Alpha:           alpha,
		VaR:             metrics.VaR,
		ES:              metrics.ES,
		ConfidenceLevel: metrics.ConfidenceLevel,
		Observations:    len(formulas.DropMissing(series)),
	})

	return metrics, nil
}

// ComputeReport computes metrics for several significance levels plus a summary of the series.
// An empty alphas slice uses the service default.
func (s *Service) ComputeReport(table ReturnTable, column string, alphas []float64) (*Report, error) {
	series, err := table.Column(column)
	if err != nil {
		s.record(column, alphas, nil, nil, err)
		return nil, err
	}
	if len(alphas) == 0 {
		alphas = []float64{s.defaultAlpha}
	}

	clean := formulas.DropMissing(series)
	report := &Report{
		Column:  column,
		Summary: summarize(series, clean, s.tradingDaysPerYear),
		Metrics: make([]AlphaMetrics, 0, len(alphas)),
	}

	for _, alpha := range alphas {
		metrics, err := formulas.CalculateRiskMetrics(clean, alpha)
		if err != nil {
			s.record(column, alphas, series, nil, err)
			return nil, fmt.Errorf("alpha %v: %w", alpha, err)
		}
		report.Metrics = append(report.Metrics, AlphaMetrics{Alpha: alpha, RiskMetrics: metrics})
	}

	id := s.record(column, alphas, series, report, nil)
	for _, m := range report.Metrics {
		s.emit(&events.RiskMetricsComputedData{
			CalculationID:   id,
			Column:          column,
			Alpha:           m.Alpha,
			VaR:             m.VaR,
			ES:              m.ES,
			ConfidenceLevel: m.ConfidenceLevel,
			Observations:    len(clean),
		})
	}

	return report, nil
}

func summarize(series, clean []float64, tradingDaysPerYear int) SeriesSummary {
	summary := SeriesSummary{
		Observations:  len(clean),
		MissingValues: len(series) - len(clean),
	}
	if len(clean) == 0 {
		return summary
	}

	summary.Mean = formulas.Mean(clean)
	summary.DailyVolatility = formulas.StdDev(clean)
	summary.AnnualizedVolatility = formulas.AnnualizedVolatility(clean, tradingDaysPerYear)
	summary.Min, summary.Max = clean[0], clean[0]
	for _, r := range clean[1:] {
		summary.Min = math.Min(summary.Min, r)
		summary.Max = math.Max(summary.Max, r)
	}

	return summary
}

func (s *Service) record(column string, alphas []float64, series []float64, output interface{}, calcErr error) string {
	if s.recorder == nil {
		return ""
	}
	input := tailRiskInput{
		Column:  column,
		Alphas:  alphas,
		Returns: toNullable(series),
	}
	return s.recorder.Record(calculations.KindTailRisk, input, output, calcErr)
}

func (s *Service) emit(data events.EventData) {
	if s.events != nil {
		s.events.EmitTyped("risk", data)
	}
}

// toNullable maps NaN and ±Inf to nil so the series survives JSON rendering
func toNullable(series []float64) []*float64 {
	out := make([]*float64, len(series))
	for i := range series {
		if math.IsNaN(series[i]) || math.IsInf(series[i], 0) {
			continue
		}
		v := series[i]
		out[i] = &v
	}
	return out
}
