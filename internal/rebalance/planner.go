// Package rebalance turns a strategy's target allocation, its aggregated
// positions and current prices into a list of proposed buy/sell actions.
// It only proposes: applying a plan to holdings and cash is the executor's
// job, never the planner's.
package rebalance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

// ConvergenceTolerance: a stock whose value drift is below this share of
// the whole strategy value is treated as balanced and skipped, so the
// planner does not oscillate on immaterial drift.
var ConvergenceTolerance = decimal.RequireFromString("0.01")

var hundred = decimal.NewFromInt(100)

type target struct {
	stockID int64
	value   decimal.Decimal
}

// Plan computes the actions that move the strategy toward its target
// allocation. Identical inputs always produce an identical, identically
// ordered plan: targets follow the stock insertion order of the allocation
// structure, positions held outside the allocation follow in position order
// with a zero target. A stock without a usable price is skipped with a
// warning instead of failing the whole plan.
func Plan(strategy model.Strategy, positions []holdings.Position, stocks map[int64]model.Stock) model.RebalancePlan {
	plan := model.RebalancePlan{StrategyID: strategy.StrategyID}

	byStock := make(map[int64]holdings.Position, len(positions))
	for _, p := range positions {
		byStock[p.StockID] = p
	}

	plan.CurrentValue = holdings.TotalValue(positions)
	strategyValue := plan.CurrentValue.Add(strategy.RemainingCash)
	if !strategyValue.IsPositive() {
		return plan
	}

	targets := buildTargets(strategy, positions, strategyValue)

	for _, tgt := range targets {
		plan.TargetValue = plan.TargetValue.Add(tgt.value)

		pos, held := byStock[tgt.stockID]

		price, symbol, ok := priceFor(tgt.stockID, pos, held, stocks)
		if !ok {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf("no current price available for stock %d, skipped", tgt.stockID))
			continue
		}

		currentValue := decimal.Zero
		if held {
			currentValue = pos.CurrentValue()
		}

		deltaValue := tgt.value.Sub(currentValue)
		if deltaValue.Abs().Div(strategyValue).LessThan(ConvergenceTolerance) {
			continue
		}

		// fractional shares below one unit are not actionable
		deltaQty := deltaValue.Abs().Div(price).Floor().IntPart()
		if deltaQty == 0 {
			continue
		}

		side := model.Buy
		if deltaValue.IsNegative() {
			side = model.Sell
		}

		plan.Actions = append(plan.Actions, model.RebalanceAction{
			StockID:     tgt.stockID,
			Symbol:      symbol,
			Side:        side,
			Quantity:    deltaQty,
			Price:       price,
			TotalAmount: price.Mul(decimal.NewFromInt(deltaQty)),
		})
	}

	return plan
}

// buildTargets flattens portfolio allocations into one target value per
// stock, accumulating when a stock appears in several portfolios and
// keeping first-seen order. Held stocks absent from the allocation are
// appended with a zero target so they get sold down.
func buildTargets(strategy model.Strategy, positions []holdings.Position, strategyValue decimal.Decimal) []target {
	targets := make([]target, 0, len(positions))
	index := make(map[int64]int)

	for _, pa := range strategy.PortfolioAllocations {
		portfolioShare := strategyValue.Mul(pa.Percentage).Div(hundred)
		for _, sa := range pa.StockAllocations {
			value := portfolioShare.Mul(sa.Percentage).Div(hundred)

			if i, seen := index[sa.StockID]; seen {
				targets[i].value = targets[i].value.Add(value)
				continue
			}
			index[sa.StockID] = len(targets)
			targets = append(targets, target{stockID: sa.StockID, value: value})
		}
	}

	for _, p := range positions {
		if _, seen := index[p.StockID]; !seen {
			index[p.StockID] = len(targets)
			targets = append(targets, target{stockID: p.StockID, value: decimal.Zero})
		}
	}

	return targets
}

func priceFor(stockID int64, pos holdings.Position, held bool, stocks map[int64]model.Stock) (price decimal.Decimal, symbol string, ok bool) {
	if stock, found := stocks[stockID]; found {
		symbol = stock.Symbol
		if stock.CurrentPrice.IsPositive() {
			return stock.CurrentPrice, symbol, true
		}
	}

	// market snapshot on the position is the fallback
	if held {
		if symbol == "" {
			symbol = pos.Symbol
		}
		if pos.CurrentPrice.IsPositive() {
			return pos.CurrentPrice, symbol, true
		}
	}

	return decimal.Zero, symbol, false
}
