package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Holding struct {
	HoldingID    int64
	StrategyID   int64
	PortfolioID  int64
	StockID      int64
	Symbol       string
	Quantity     int64
	AveragePrice decimal.Decimal
	CurrentPrice decimal.Decimal
	PurchaseDate time.Time
}
