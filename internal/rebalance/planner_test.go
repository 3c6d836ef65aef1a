package rebalance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strategy(cash string, allocations ...model.PortfolioAllocation) model.Strategy {
	return model.Strategy{
		StrategyID:           1,
		RemainingCash:        dec(cash),
		PortfolioAllocations: allocations,
	}
}

func pa(portfolioID int64, pct string, stocks ...model.StockAllocation) model.PortfolioAllocation {
	return model.PortfolioAllocation{
		PortfolioID:      portfolioID,
		Percentage:       dec(pct),
		StockAllocations: stocks,
	}
}

func sa(stockID int64, pct string) model.StockAllocation {
	return model.StockAllocation{StockID: stockID, Percentage: dec(pct)}
}

func position(stockID, qty int64, price string) holdings.Position {
	return holdings.Position{
		StockID:      stockID,
		Quantity:     qty,
		AveragePrice: dec(price),
		CurrentPrice: dec(price),
	}
}

func stockMap(stocks ...model.Stock) map[int64]model.Stock {
	m := make(map[int64]model.Stock, len(stocks))
	for _, s := range stocks {
		m[s.StockID] = s
	}
	return m
}

func stock(id int64, symbol, price string) model.Stock {
	return model.Stock{StockID: id, Symbol: symbol, CurrentPrice: dec(price)}
}

func TestPlanWorkedExample(t *testing.T) {
	// one portfolio at 100%, one stock at 100%, strategy value 10 000 EGP:
	// 90 shares @ 100 = 9 000 held, 1 000 cash -> drift is 10%, well above
	// tolerance -> BUY floor(1000/100) = 10 @ 100
	s := strategy("1000", pa(1, "100", sa(10, "100")))
	positions := []holdings.Position{position(10, 90, "100")}

	plan := Plan(s, positions, stockMap(stock(10, "COMI", "100")))

	require.Len(t, plan.Actions, 1)
	action := plan.Actions[0]
	assert.Equal(t, model.Buy, action.Side)
	assert.Equal(t, int64(10), action.StockID)
	assert.Equal(t, "COMI", action.Symbol)
	assert.Equal(t, int64(10), action.Quantity)
	assert.True(t, action.Price.Equal(dec("100")))
	assert.True(t, action.TotalAmount.Equal(dec("1000")), "got %s", action.TotalAmount)
	assert.Empty(t, plan.Warnings)
}

func TestPlanBalancedReturnsNoActions(t *testing.T) {
	// every stock within the 1% band -> empty plan
	s := strategy("0",
		pa(1, "50", sa(1, "100")),
		pa(2, "50", sa(2, "100")),
	)
	positions := []holdings.Position{
		position(1, 50, "100"), // 5 000
		position(2, 100, "50"), // 5 000
	}

	plan := Plan(s, positions, stockMap(stock(1, "COMI", "100"), stock(2, "HRHO", "50")))

	assert.Empty(t, plan.Actions)
	assert.Empty(t, plan.Warnings)
	assert.True(t, plan.CurrentValue.Equal(dec("10000")))
}

func TestPlanSellsOverweightStock(t *testing.T) {
	s := strategy("0",
		pa(1, "50", sa(1, "100")),
		pa(2, "50", sa(2, "100")),
	)
	positions := []holdings.Position{
		position(1, 80, "100"), // 8 000 vs target 5 000
		position(2, 40, "50"),  // 2 000 vs target 5 000
	}

	plan := Plan(s, positions, stockMap(stock(1, "COMI", "100"), stock(2, "HRHO", "50")))

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, model.Sell, plan.Actions[0].Side)
	assert.Equal(t, int64(1), plan.Actions[0].StockID)
	assert.Equal(t, int64(30), plan.Actions[0].Quantity)
	assert.Equal(t, model.Buy, plan.Actions[1].Side)
	assert.Equal(t, int64(2), plan.Actions[1].StockID)
	assert.Equal(t, int64(60), plan.Actions[1].Quantity)
}

func TestPlanDeterministicOrdering(t *testing.T) {
	s := strategy("20000",
		pa(1, "60", sa(3, "40"), sa(1, "35"), sa(2, "25")),
		pa(2, "40", sa(2, "50"), sa(4, "50")),
	)
	positions := []holdings.Position{position(4, 10, "75")}
	stocks := stockMap(
		stock(1, "SWDY", "12.5"),
		stock(2, "HRHO", "20"),
		stock(3, "COMI", "80"),
		stock(4, "TMGH", "75"),
	)

	first := Plan(s, positions, stocks)
	second := Plan(s, positions, stocks)

	require.Equal(t, first, second)

	// allocation insertion order: 3, 1, 2, 4
	ids := make([]int64, 0, len(first.Actions))
	for _, a := range first.Actions {
		ids = append(ids, a.StockID)
	}
	assert.Equal(t, []int64{3, 1, 2, 4}, ids)
}

func TestPlanAggregatesStockAcrossPortfolios(t *testing.T) {
	// stock 1 gets 50% of portfolio A (60%) and 100% of portfolio B (40%):
	// target = 10 000 * (0.6*0.5 + 0.4) = 7 000
	s := strategy("10000",
		pa(1, "60", sa(1, "50"), sa(2, "50")),
		pa(2, "40", sa(1, "100")),
	)

	plan := Plan(s, nil, stockMap(stock(1, "COMI", "70"), stock(2, "HRHO", "30")))

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, int64(1), plan.Actions[0].StockID)
	assert.Equal(t, int64(100), plan.Actions[0].Quantity) // 7 000 / 70
	assert.Equal(t, int64(2), plan.Actions[1].StockID)
	assert.Equal(t, int64(100), plan.Actions[1].Quantity) // 3 000 / 30
}

func TestPlanSellsUnallocatedPosition(t *testing.T) {
	// stock 9 is held but absent from the allocation -> sold down to zero
	s := strategy("0", pa(1, "100", sa(1, "100")))
	positions := []holdings.Position{
		position(1, 90, "100"),
		position(9, 20, "50"),
	}

	plan := Plan(s, positions, stockMap(stock(1, "COMI", "100"), stock(9, "ETEL", "50")))

	require.Len(t, plan.Actions, 2)
	assert.Equal(t, model.Buy, plan.Actions[0].Side)
	assert.Equal(t, int64(1), plan.Actions[0].StockID)
	last := plan.Actions[1]
	assert.Equal(t, model.Sell, last.Side)
	assert.Equal(t, int64(9), last.StockID)
	assert.Equal(t, int64(20), last.Quantity)
}

func TestPlanMissingPriceCollectsWarning(t *testing.T) {
	s := strategy("10000",
		pa(1, "50", sa(1, "100")),
		pa(2, "50", sa(2, "100")),
	)

	plan := Plan(s, nil, stockMap(stock(1, "COMI", "100")))

	// stock 2 has no price anywhere: partial plan plus one warning
	require.Len(t, plan.Actions, 1)
	assert.Equal(t, int64(1), plan.Actions[0].StockID)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "stock 2")
}

func TestPlanSkipsSubShareDelta(t *testing.T) {
	// drift above 1% of strategy value but below one unit of an expensive
	// stock -> not actionable
	s := strategy("90", pa(1, "100", sa(1, "100")))
	positions := []holdings.Position{position(1, 10, "100")}

	plan := Plan(s, positions, stockMap(stock(1, "COMI", "100")))

	assert.Empty(t, plan.Actions)
}

func TestPlanZeroValueStrategy(t *testing.T) {
	s := strategy("0", pa(1, "100", sa(1, "100")))

	plan := Plan(s, nil, stockMap(stock(1, "COMI", "100")))

	assert.Empty(t, plan.Actions)
	assert.Empty(t, plan.Warnings)
}
