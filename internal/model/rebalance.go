package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RebalanceSide string

const (
	Buy  RebalanceSide = "buy"
	Sell RebalanceSide = "sell"
)

type RebalanceAction struct {
	StockID     int64           `json:"stock_id"`
	Symbol      string          `json:"symbol"`
	Side        RebalanceSide   `json:"action"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// RebalancePlan is transient: holdings stay the source of truth, the plan
// is recomputable from them at any time.
type RebalancePlan struct {
	StrategyID   int64
	CurrentValue decimal.Decimal
	TargetValue  decimal.Decimal
	Actions      []RebalanceAction
	Warnings     []string
}

type RebalanceRecord struct {
	RecordID   int64
	StrategyID int64
	Actions    []RebalanceAction
	Executed   bool
	Undone     bool
	CreatedAt  time.Time
	ExecutedAt *time.Time
	UndoneAt   *time.Time
}
