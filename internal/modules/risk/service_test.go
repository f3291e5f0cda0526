package risk

import (
	"math"
	"testing"

	"github.com/aristath/hedgeguard/internal/events"
	"github.com/aristath/hedgeguard/internal/modules/calculations"
	testingpkg "github.com/aristath/hedgeguard/internal/testing"
	"github.com/aristath/hedgeguard/pkg/formulas"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCalculation struct {
	kind   calculations.Kind
	input  interface{}
	output interface{}
	err    error
}

type fakeRecorder struct {
	calls []recordedCalculation
}

func (f *fakeRecorder) Record(kind calculations.Kind, input, output interface{}, calcErr error) string {
	f.calls = append(f.calls, recordedCalculation{kind, input, output, calcErr})
	return "calc-1"
}

func newTestService() (*Service, *fakeRecorder, *testingpkg.MockEventEmitter) {
	recorder := &fakeRecorder{}
	emitter := testingpkg.NewMockEventEmitter()
	svc := NewService(formulas.DefaultAlpha, 252, recorder, emitter, zerolog.New(nil).Level(zerolog.Disabled))
	return svc, recorder, emitter
}

var sevenDayReturns = testingpkg.NewSevenDayReturns()

func TestComputeRiskMetrics(t *testing.T) {
	svc, recorder, emitter := newTestService()
	table := ReturnTable{"QQQ_Return": sevenDayReturns}

	metrics, err := svc.ComputeRiskMetrics(table, "QQQ_Return", 0.05)
	require.NoError(t, err)

	assert.InDelta(t, -0.044, metrics.VaR, 1e-12)
	assert.InDelta(t, -0.05, metrics.ES, 1e-12)
	assert.Equal(t, "95%", metrics.ConfidenceLevel)

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, calculations.KindTailRisk, recorder.calls[0].kind)
	assert.NoError(t, recorder.calls[0].err)

	require.Len(t, emitter.Emitted(), 1)
	data := emitter.Emitted()[0].(*events.RiskMetricsComputedData)
	assert.Equal(t, "calc-1", data.CalculationID)
	assert.Equal(t, 7, data.Observations)
}

func TestComputeRiskMetrics_DropsMissingValues(t *testing.T) {
	svc, _, _ := newTestService()
	table := ReturnTable{"QQQ_Return": {0.02, math.NaN(), -0.01, -0.04, math.Inf(-1), 0.03}}

	metrics, err := svc.ComputeRiskMetrics(table, "QQQ_Return", 0.05)
	require.NoError(t, err)
	assert.InDelta(t, -0.0355, metrics.VaR, 1e-12)
	assert.InDelta(t, -0.04, metrics.ES, 1e-12)
}

func TestComputeRiskMetrics_MissingColumn(t *testing.T) {
	svc, recorder, emitter := newTestService()
	table := ReturnTable{"SPY_Return": sevenDayReturns}

	_, err := svc.ComputeRiskMetrics(table, "QQQ_Return", 0.05)
	assert.ErrorIs(t, err, formulas.ErrMissingData)
	assert.Empty(t, emitter.Emitted())

	require.Len(t, recorder.calls, 1)
	assert.ErrorIs(t, recorder.calls[0].err, formulas.ErrMissingData)
	assert.Nil(t, recorder.calls[0].output)
	input := recorder.calls[0].input.(tailRiskInput)
	assert.Equal(t, "QQQ_Return", input.Column)
	assert.Equal(t, []float64{0.05}, input.Alphas)
	assert.Empty(t, input.Returns)
}

func TestComputeRiskMetrics_UndefinedTailIsRecorded(t *testing.T) {
	svc, recorder, emitter := newTestService()
	table := ReturnTable{"QQQ_Return": {math.NaN(), math.NaN()}}

	_, err := svc.ComputeRiskMetrics(table, "QQQ_Return", 0.05)
	assert.ErrorIs(t, err, formulas.ErrUndefinedResult)

	require.Len(t, recorder.calls, 1)
	assert.ErrorIs(t, recorder.calls[0].err, formulas.ErrUndefinedResult)
	input := recorder.calls[0].input.(tailRiskInput)
	assert.Equal(t, []*float64{nil, nil}, input.Returns)
	assert.Empty(t, emitter.Emitted())
}

func TestComputeRiskMetrics_InvalidAlpha(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.ComputeRiskMetrics(ReturnTable{"r": sevenDayReturns}, "r", 1.5)
	assert.ErrorIs(t, err, formulas.ErrInvalidArgument)
}

func TestComputeRiskMetrics_NilCollaborators(t *testing.T) {
	svc := NewService(0.05, 252, nil, nil, zerolog.Nop())
	metrics, err := svc.ComputeRiskMetrics(ReturnTable{"r": sevenDayReturns}, "r", 0.05)
	require.NoError(t, err)
	assert.InDelta(t, -0.044, metrics.VaR, 1e-12)
}

func TestComputeReport(t *testing.T) {
	svc, recorder, emitter := newTestService()
	table := ReturnTable{"QQQ_Return": {0.02, math.NaN(), -0.01, -0.04, 0.03}}

	report, err := svc.ComputeReport(table, "QQQ_Return", []float64{0.05, 0.10})
	require.NoError(t, err)

	assert.Equal(t, "QQQ_Return", report.Column)
	assert.Equal(t, 4, report.Summary.Observations)
	assert.Equal(t, 1, report.Summary.MissingValues)
	assert.InDelta(t, 0.0, report.Summary.Mean, 1e-12)
	assert.Equal(t, -0.04, report.Summary.Min)
	assert.Equal(t, 0.03, report.Summary.Max)
	assert.InDelta(t, report.Summary.DailyVolatility*math.Sqrt(252), report.Summary.AnnualizedVolatility, 1e-12)

	require.Len(t, report.Metrics, 2)
	assert.InDelta(t, -0.0355, report.Metrics[0].VaR, 1e-12)
	assert.Equal(t, "95%", report.Metrics[0].ConfidenceLevel)
	assert.InDelta(t, -0.031, report.Metrics[1].VaR, 1e-12)
	assert.Equal(t, "90%", report.Metrics[1].ConfidenceLevel)
	assert.InDelta(t, -0.04, report.Metrics[1].ES, 1e-12)

	assert.Len(t, recorder.calls, 1)
	assert.Len(t, emitter.Emitted(), 2)
}

func TestComputeReport_DefaultAlpha(t *testing.T) {
	svc, _, _ := newTestService()

	report, err := svc.ComputeReport(ReturnTable{"r": sevenDayReturns}, "r", nil)
	require.NoError(t, err)
	require.Len(t, report.Metrics, 1)
	assert.Equal(t, 0.05, report.Metrics[0].Alpha)
}

func TestComputeReport_Errors(t *testing.T) {
	svc, recorder, _ := newTestService()

	_, err := svc.ComputeReport(ReturnTable{}, "r", nil)
	assert.ErrorIs(t, err, formulas.ErrMissingData)
	require.Len(t, recorder.calls, 1)
	assert.ErrorIs(t, recorder.calls[0].err, formulas.ErrMissingData)

	_, err = svc.ComputeReport(ReturnTable{"r": sevenDayReturns}, "r", []float64{0.05, -1})
	assert.ErrorIs(t, err, formulas.ErrInvalidArgument)

	_, err = svc.ComputeReport(ReturnTable{"r": {}}, "r", nil)
	assert.ErrorIs(t, err, formulas.ErrUndefinedResult)
}

func TestReturnTable(t *testing.T) {
	v1, v2 := 0.01, -0.02
	table := NewReturnTableFromNullable(map[string][]*float64{
		"b": {&v1, nil, &v2},
		"a": {},
	})

	assert.Equal(t, []string{"a", "b"}, table.Columns())

	series, err := table.Column("b")
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, 0.01, series[0])
	assert.True(t, math.IsNaN(series[1]))
	assert.Equal(t, -0.02, series[2])

	_, err = table.Column("c")
	assert.ErrorIs(t, err, formulas.ErrMissingData)
}

func TestComputeRiskMetrics_IgnoresMissingObservations(t *testing.T) {
	svc, _, emitter := newTestService()
	table := ReturnTable{"QQQ_Return": testingpkg.NewReturnsWithGaps()}

	metrics, err := svc.ComputeRiskMetrics(table, "QQQ_Return", 0.10)
	require.NoError(t, err)

	assert.InDelta(t, -0.031, metrics.VaR, 1e-12)
	assert.InDelta(t, -0.04, metrics.ES, 1e-12)

	data := emitter.OfType(events.RiskMetricsComputed)
	require.Len(t, data, 1)
	assert.Equal(t, len(testingpkg.NewFourDayReturns()), data[0].(*events.RiskMetricsComputedData).Observations)
}

func TestNewReturnTableFromNullable_MatchesFixtures(t *testing.T) {
	table := NewReturnTableFromNullable(map[string][]*float64{
		"QQQ_Return": testingpkg.NewNullableReturns(testingpkg.NewReturnsWithGaps()),
	})

	series, err := table.Column("QQQ_Return")
	require.NoError(t, err)
	require.Len(t, series, 6)
	assert.True(t, math.IsNaN(series[1]))
	assert.Equal(t, testingpkg.NewFourDayReturns(), formulas.DropMissing(series))
}
