package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

var day0 = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func series(id int64, values ...float64) model.PerformanceSeries {
	s := model.PerformanceSeries{PortfolioID: id}
	for i, v := range values {
		s.Points = append(s.Points, model.PerformancePoint{
			Date:  day0.AddDate(0, 0, i),
			Value: decimal.NewFromFloat(v),
		})
	}
	return s
}

func seriesFrom(id int64, start time.Time, values ...float64) model.PerformanceSeries {
	s := model.PerformanceSeries{PortfolioID: id}
	for i, v := range values {
		s.Points = append(s.Points, model.PerformancePoint{
			Date:  start.AddDate(0, 0, i),
			Value: decimal.NewFromFloat(v),
		})
	}
	return s
}

func TestPctChange(t *testing.T) {
	assert.InDelta(t, 25.0, PctChange(series(1, 1000, 1100, 1250)), 1e-9)
	assert.InDelta(t, -10.0, PctChange(series(1, 1000, 900)), 1e-9)
	assert.Zero(t, PctChange(series(1)))
	assert.Zero(t, PctChange(series(1, 0, 500)))
	assert.Zero(t, PctChange(series(1, 500)))
}

func TestReturns(t *testing.T) {
	r := Returns(series(1, 100, 110, 99))
	require.Len(t, r, 2)
	assert.InDelta(t, 0.10, r[0], 1e-9)
	assert.InDelta(t, -0.10, r[1], 1e-9)

	assert.Empty(t, Returns(series(1, 100)))
	assert.Empty(t, Returns(series(1)))
}

func TestVolatilityDegenerateCases(t *testing.T) {
	assert.Zero(t, Volatility(series(1)))
	assert.Zero(t, Volatility(series(1, 1000)))
	assert.Zero(t, Volatility(series(1, 1000, 1100)))
	// flat series has zero volatility
	assert.Zero(t, Volatility(series(1, 1000, 1000, 1000, 1000)))
}

func TestVolatilityNonNegative(t *testing.T) {
	samples := []model.PerformanceSeries{
		series(1, 100, 105, 98, 103, 110),
		series(2, 50, 50.5, 49.8, 51, 47, 52),
		series(3, 1000, 500, 2000, 250),
	}

	for _, s := range samples {
		v := Volatility(s)
		assert.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestVolatilityAnnualization(t *testing.T) {
	// returns +10%, -10% -> sample stddev = sqrt(2)*0.1/sqrt(1) ... computed directly
	s := series(1, 100, 110, 99)
	r := Returns(s)
	mean := (r[0] + r[1]) / 2
	sd := math.Sqrt(math.Pow(r[0]-mean, 2) + math.Pow(r[1]-mean, 2)) // n-1 == 1

	assert.InDelta(t, sd*math.Sqrt(252), Volatility(s), 1e-9)
}

func TestCorrelationBounds(t *testing.T) {
	a := series(1, 100, 105, 98, 103, 110, 108)
	b := series(2, 50, 52, 49, 51, 55, 54)

	r := Correlation(a, b)
	assert.GreaterOrEqual(t, r, -1.0)
	assert.LessOrEqual(t, r, 1.0)
}

func TestCorrelationSelf(t *testing.T) {
	a := series(1, 100, 105, 98, 103, 110)
	assert.InDelta(t, 1.0, Correlation(a, a), 1e-9)
}

func TestCorrelationInverse(t *testing.T) {
	a := series(1, 100, 110, 100, 110, 100)
	b := series(2, 100, 90, 100, 90, 100)
	assert.Less(t, Correlation(a, b), 0.0)
}

func TestCorrelationOverValuePoints(t *testing.T) {
	// Both trend upward but zig on opposite days. Pearson over the value
	// points stays positive; day-over-day moves alone would call these
	// strongly inverse.
	a := series(1, 100, 110, 105, 115, 110, 120)
	b := series(2, 100, 95, 105, 100, 110, 105)

	r := Correlation(a, b)
	assert.Greater(t, r, 0.0)
	assert.InDelta(t, 0.1348, r, 1e-3)
}

func TestCorrelationZeroVariance(t *testing.T) {
	flat := series(1, 100, 100, 100, 100)
	moving := series(2, 100, 105, 98, 104)

	assert.Zero(t, Correlation(flat, moving))
	assert.Zero(t, Correlation(moving, flat))
}

func TestCorrelationAlignsByDate(t *testing.T) {
	// b starts 2 days after a; only the overlapping days are compared
	a := seriesFrom(1, day0, 100, 110, 100, 110, 100, 110)
	b := seriesFrom(2, day0.AddDate(0, 0, 2), 200, 220, 200, 220)

	// over the overlap both zig the same way
	assert.InDelta(t, 1.0, Correlation(a, b), 1e-9)

	// no overlap at all
	c := seriesFrom(3, day0.AddDate(0, 0, 100), 10, 20, 30)
	assert.Zero(t, Correlation(a, c))
}

func TestCorrelationTooFewAlignedPoints(t *testing.T) {
	a := series(1, 100, 105, 98)
	b := seriesFrom(2, day0.AddDate(0, 0, 2), 100, 105)

	// one shared day only
	assert.Zero(t, Correlation(a, b))
}

func TestCompare(t *testing.T) {
	a := series(1, 100, 110)
	b := series(2, 200, 180)
	c := series(3)

	report := Compare([]model.PerformanceSeries{a, b, c})

	require.Len(t, report.Portfolios, 3)
	assert.InDelta(t, 10.0, report.Portfolios[0].PctChange, 1e-9)
	assert.InDelta(t, -10.0, report.Portfolios[1].PctChange, 1e-9)
	assert.Zero(t, report.Portfolios[2].PctChange)

	require.Len(t, report.Correlations, 3)
	assert.Equal(t, int64(1), report.Correlations[0].PortfolioA)
	assert.Equal(t, int64(2), report.Correlations[0].PortfolioB)
}
