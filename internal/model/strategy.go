package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAllocation is a single stock share within a portfolio allocation.
// Order matters: rebalance plans follow allocation insertion order.
type StockAllocation struct {
	StockID    int64           `json:"stock_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

type PortfolioAllocation struct {
	PortfolioID      int64             `json:"portfolio_id"`
	Percentage       decimal.Decimal   `json:"percentage"`
	StockAllocations []StockAllocation `json:"stock_allocations"`
}

type Strategy struct {
	StrategyID           int64
	Name                 string
	TotalFunds           decimal.Decimal
	RemainingCash        decimal.Decimal
	PortfolioAllocations []PortfolioAllocation
	CreatedAt            time.Time
}

// StrategyDraft is the payload of a create/update request, validated
// before anything is persisted.
type StrategyDraft struct {
	Name                 string
	TotalFunds           decimal.Decimal
	PortfolioAllocations []PortfolioAllocation
}

type StrategySummary struct {
	Strategy
	CurrentValue  decimal.Decimal
	ProfitLoss    decimal.Decimal
	ProfitLossPct decimal.Decimal
}
