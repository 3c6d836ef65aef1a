package model

import "github.com/shopspring/decimal"

// StrategyReport is the flattened data an export (xlsx) is rendered from.
type StrategyReport struct {
	Summary   StrategySummary
	Positions []ReportPosition
	Actions   []RebalanceAction
}

type ReportPosition struct {
	Symbol        string
	Quantity      int64
	AveragePrice  decimal.Decimal
	CurrentPrice  decimal.Decimal
	CurrentValue  decimal.Decimal
	AllocationPct decimal.Decimal
}
