// Package allocation validates percentage-based fund allocations of a
// strategy draft before anything is persisted or planned.
package allocation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

// Tolerance is the accepted deviation from 100% for a percentage sum.
var Tolerance = decimal.RequireFromString("0.01")

var (
	ErrEmptyAllocation = errors.New("strategy has no portfolio allocations")
	ErrInvalidFunds    = errors.New("total funds must be a positive amount")
)

// PortfolioMismatchError reports the actual portfolio-level percentage sum.
type PortfolioMismatchError struct {
	Sum decimal.Decimal
}

func (e *PortfolioMismatchError) Error() string {
	return fmt.Sprintf("portfolio allocations sum to %s, expected 100", e.Sum)
}

// StockMismatchError reports a single portfolio whose internal stock
// percentages do not sum to 100.
type StockMismatchError struct {
	PortfolioID int64
	Sum         decimal.Decimal
}

func (e *StockMismatchError) Error() string {
	return fmt.Sprintf("stock allocations in portfolio %d sum to %s, expected 100", e.PortfolioID, e.Sum)
}

var hundred = decimal.NewFromInt(100)

// Validate checks a strategy draft and returns nil when every percentage
// level sums to 100 within Tolerance. It is pure: safe to call both before
// persistence and again before rebalance planning.
func Validate(draft model.StrategyDraft) error {
	if !draft.TotalFunds.IsPositive() {
		return ErrInvalidFunds
	}

	if len(draft.PortfolioAllocations) == 0 {
		return ErrEmptyAllocation
	}

	portfolioSum := decimal.Zero
	for _, pa := range draft.PortfolioAllocations {
		portfolioSum = portfolioSum.Add(pa.Percentage)
	}

	if portfolioSum.Sub(hundred).Abs().GreaterThan(Tolerance) {
		return &PortfolioMismatchError{Sum: portfolioSum}
	}

	for _, pa := range draft.PortfolioAllocations {
		stockSum := decimal.Zero
		for _, sa := range pa.StockAllocations {
			stockSum = stockSum.Add(sa.Percentage)
		}

		if stockSum.Sub(hundred).Abs().GreaterThan(Tolerance) {
			return &StockMismatchError{PortfolioID: pa.PortfolioID, Sum: stockSum}
		}
	}

	return nil
}
