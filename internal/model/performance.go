package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PerformancePoint struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// PerformanceSeries is an ordered value history for one portfolio,
// built from persisted snapshots.
type PerformanceSeries struct {
	PortfolioID int64              `json:"portfolio_id"`
	Name        string             `json:"name"`
	Points      []PerformancePoint `json:"points"`
}

// ComparisonReport is what the dashboard comparison screen renders.
type ComparisonReport struct {
	Portfolios   []PortfolioStats  `json:"portfolios"`
	Correlations []CorrelationPair `json:"correlations"`
	Warnings     []string          `json:"warnings,omitempty"`
}

type PortfolioStats struct {
	PortfolioID int64   `json:"portfolio_id"`
	Name        string  `json:"name"`
	PctChange   float64 `json:"pct_change"`
	Volatility  float64 `json:"volatility"`
}

type CorrelationPair struct {
	PortfolioA  int64   `json:"portfolio_a"`
	PortfolioB  int64   `json:"portfolio_b"`
	Correlation float64 `json:"correlation"`
}
