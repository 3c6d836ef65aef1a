// Package holdings merges per-portfolio holdings of a strategy into one
// position per stock with a weighted-average cost basis.
package holdings

import (
	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Position is the merged view of one stock across every portfolio that
// contributes to a strategy.
type Position struct {
	StockID      int64
	Symbol       string
	Quantity     int64
	AveragePrice decimal.Decimal
	CurrentPrice decimal.Decimal
}

// CurrentValue is quantity * current market price.
func (p Position) CurrentValue() decimal.Decimal {
	return p.CurrentPrice.Mul(decimal.NewFromInt(p.Quantity))
}

// CostBasis is quantity * weighted-average purchase price.
func (p Position) CostBasis() decimal.Decimal {
	return p.AveragePrice.Mul(decimal.NewFromInt(p.Quantity))
}

// AllocationPercent is the position's share of totalValue. A zero total
// yields zero, never a division error.
func (p Position) AllocationPercent(totalValue decimal.Decimal) decimal.Decimal {
	if totalValue.IsZero() {
		return decimal.Zero
	}
	return p.CurrentValue().Div(totalValue).Mul(hundred)
}

// Aggregate folds holdings in their given order into at most one position
// per stock, preserving first-seen order. The average price is recomputed
// incrementally on every merge:
//
//	newAvg = (qty*avg + inQty*inAvg) / (qty + inQty)
//
// The sequential recurrence is deliberate: other aggregations in the system
// accumulate the same way and results must match them exactly, so do not
// replace it with a single batch formula.
func Aggregate(items []model.Holding) []Position {
	positions := make([]Position, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, h := range items {
		i, seen := index[h.StockID]
		if !seen {
			index[h.StockID] = len(positions)
			positions = append(positions, Position{
				StockID:      h.StockID,
				Symbol:       h.Symbol,
				Quantity:     h.Quantity,
				AveragePrice: h.AveragePrice,
				CurrentPrice: h.CurrentPrice,
			})
			continue
		}

		pos := positions[i]
		mergedQty := pos.Quantity + h.Quantity
		if mergedQty != 0 {
			existing := pos.AveragePrice.Mul(decimal.NewFromInt(pos.Quantity))
			incoming := h.AveragePrice.Mul(decimal.NewFromInt(h.Quantity))
			pos.AveragePrice = existing.Add(incoming).Div(decimal.NewFromInt(mergedQty))
		}
		pos.Quantity = mergedQty
		if !h.CurrentPrice.IsZero() {
			pos.CurrentPrice = h.CurrentPrice
		}
		positions[i] = pos
	}

	return positions
}

// TotalValue sums the current value of every position.
func TotalValue(positions []Position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.CurrentValue())
	}
	return total
}
