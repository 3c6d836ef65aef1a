// Package analytics computes comparative statistics over portfolio value
// histories for the comparison screen. All functions are pure and tolerate
// degenerate input by returning zero instead of NaN or an error: the
// dashboard keeps rendering with partial data.
package analytics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

// TradingDaysPerYear is the factor assumed when annualizing daily returns.
const TradingDaysPerYear = 252

// PctChange is the percent move from the first to the last point of the
// series. An empty series or a zero first value yields 0.
func PctChange(series model.PerformanceSeries) float64 {
	points := series.Points
	if len(points) == 0 {
		return 0
	}

	first, _ := points[0].Value.Float64()
	last, _ := points[len(points)-1].Value.Float64()
	if first == 0 {
		return 0
	}

	return (last - first) / first * 100
}

// Returns converts the series values into simple period returns:
// r[i] = (v[i+1] - v[i]) / v[i]. Fewer than 2 points yields an empty slice.
func Returns(series model.PerformanceSeries) []float64 {
	points := series.Points
	if len(points) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev, _ := points[i-1].Value.Float64()
		cur, _ := points[i].Value.Float64()
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (cur-prev)/prev)
	}

	return returns
}

// Volatility is the sample standard deviation of the series' simple
// returns annualized by sqrt(252). Fewer than 2 points yields 0.
func Volatility(series model.PerformanceSeries) float64 {
	returns := Returns(series)
	if len(returns) < 2 {
		return 0
	}

	sd := stat.StdDev(returns, nil)
	if math.IsNaN(sd) {
		return 0
	}

	return sd * math.Sqrt(TradingDaysPerYear)
}

// Correlation is the Pearson correlation of the two series' value points
// over their date-aligned overlap. Points are matched by calendar day, not
// by position, so series starting on different dates compare the same time
// window. Fewer than 2 aligned points or a constant-valued side yields 0.
func Correlation(a, b model.PerformanceSeries) float64 {
	alignedA, alignedB := alignByDate(a, b)
	if len(alignedA.Points) < 2 {
		return 0
	}

	va := values(alignedA)
	vb := values(alignedB)

	if stat.Variance(va, nil) == 0 || stat.Variance(vb, nil) == 0 {
		return 0
	}

	r := stat.Correlation(va, vb, nil)
	if math.IsNaN(r) {
		return 0
	}

	return r
}

func values(series model.PerformanceSeries) []float64 {
	vals := make([]float64, 0, len(series.Points))
	for _, p := range series.Points {
		v, _ := p.Value.Float64()
		vals = append(vals, v)
	}
	return vals
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func alignByDate(a, b model.PerformanceSeries) (model.PerformanceSeries, model.PerformanceSeries) {
	byDay := make(map[string]model.PerformancePoint, len(b.Points))
	for _, p := range b.Points {
		byDay[dayKey(p.Date)] = p
	}

	alignedA := model.PerformanceSeries{PortfolioID: a.PortfolioID, Name: a.Name}
	alignedB := model.PerformanceSeries{PortfolioID: b.PortfolioID, Name: b.Name}

	for _, p := range a.Points {
		match, ok := byDay[dayKey(p.Date)]
		if !ok {
			continue
		}
		alignedA.Points = append(alignedA.Points, p)
		alignedB.Points = append(alignedB.Points, match)
	}

	return alignedA, alignedB
}

// Compare builds the full comparison report for the given series. A series
// with no points still gets its (zero) stats; pairwise correlations cover
// every distinct pair once, in input order.
func Compare(series []model.PerformanceSeries) model.ComparisonReport {
	report := model.ComparisonReport{}

	for _, s := range series {
		report.Portfolios = append(report.Portfolios, model.PortfolioStats{
			PortfolioID: s.PortfolioID,
			Name:        s.Name,
			PctChange:   PctChange(s),
			Volatility:  Volatility(s),
		})
	}

	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			report.Correlations = append(report.Correlations, model.CorrelationPair{
				PortfolioA:  series[i].PortfolioID,
				PortfolioB:  series[j].PortfolioID,
				Correlation: Correlation(series[i], series[j]),
			})
		}
	}

	return report
}
