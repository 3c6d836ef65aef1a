package restModel

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

type StrategyRequest struct {
	Name                 string                      `json:"name"`
	TotalFunds           decimal.Decimal             `json:"total_funds"`
	PortfolioAllocations []model.PortfolioAllocation `json:"portfolio_allocations"`
}

type PortfolioRequest struct {
	Name     string  `json:"name"`
	StockIDs []int64 `json:"stock_ids"`
}

type StrategyResponse struct {
	StrategyID           int64                       `json:"strategy_id"`
	Name                 string                      `json:"name"`
	TotalFunds           decimal.Decimal             `json:"total_funds"`
	RemainingCash        decimal.Decimal             `json:"remaining_cash"`
	CurrentValue         decimal.Decimal             `json:"current_value"`
	ProfitLoss           decimal.Decimal             `json:"profit_loss"`
	ProfitLossPct        decimal.Decimal             `json:"profit_loss_pct"`
	PortfolioAllocations []model.PortfolioAllocation `json:"portfolio_allocations"`
	CreatedAt            time.Time                   `json:"created_at"`
}

type PositionResponse struct {
	StockID       int64           `json:"stock_id"`
	Symbol        string          `json:"symbol"`
	Quantity      int64           `json:"quantity"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	CurrentValue  decimal.Decimal `json:"current_value"`
	AllocationPct decimal.Decimal `json:"allocation_pct"`
}

type RebalancePlanResponse struct {
	StrategyID   int64                   `json:"strategy_id"`
	CurrentValue decimal.Decimal         `json:"current_value"`
	TargetValue  decimal.Decimal         `json:"target_value"`
	Actions      []model.RebalanceAction `json:"actions"`
	Warnings     []string                `json:"warnings,omitempty"`
}

type RebalanceRecordResponse struct {
	RecordID   int64                   `json:"record_id"`
	StrategyID int64                   `json:"strategy_id"`
	Actions    []model.RebalanceAction `json:"actions"`
	Executed   bool                    `json:"executed"`
	Undone     bool                    `json:"undone"`
	CreatedAt  time.Time               `json:"created_at"`
	ExecutedAt *time.Time              `json:"executed_at,omitempty"`
	UndoneAt   *time.Time              `json:"undone_at,omitempty"`
}

type PortfolioResponse struct {
	PortfolioID int64     `json:"portfolio_id"`
	Name        string    `json:"name"`
	StockIDs    []int64   `json:"stock_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

type WatchlistSummaryResponse struct {
	WatchlistID int64     `json:"watchlist_id"`
	Name        string    `json:"name"`
	StockIDs    []int64   `json:"stock_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

type WatchlistResponse struct {
	WatchlistID int64           `json:"watchlist_id"`
	Name        string          `json:"name"`
	Stocks      []StockResponse `json:"stocks"`
	CreatedAt   time.Time       `json:"created_at"`
}

type StockResponse struct {
	StockID      int64           `json:"stock_id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Sector       string          `json:"sector"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
