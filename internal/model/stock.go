package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	StockID      int64
	Symbol       string
	Name         string
	Sector       string
	CurrentPrice decimal.Decimal
	UpdatedAt    time.Time
}
