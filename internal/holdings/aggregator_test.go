package holdings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func holding(stockID, qty int64, avg, price string) model.Holding {
	return model.Holding{
		StockID:      stockID,
		Quantity:     qty,
		AveragePrice: dec(avg),
		CurrentPrice: dec(price),
	}
}

func TestAggregateWeightedAverage(t *testing.T) {
	// 10 @ 100 then 5 @ 130 -> 15 @ (10*100+5*130)/15 = 110
	positions := Aggregate([]model.Holding{
		holding(1, 10, "100", "120"),
		holding(1, 5, "130", "120"),
	})

	require.Len(t, positions, 1)
	assert.Equal(t, int64(15), positions[0].Quantity)
	assert.True(t, positions[0].AveragePrice.Equal(dec("110")), "got avg %s", positions[0].AveragePrice)
}

func TestAggregatePreservesFirstSeenOrder(t *testing.T) {
	positions := Aggregate([]model.Holding{
		holding(7, 1, "10", "10"),
		holding(3, 2, "20", "20"),
		holding(7, 3, "30", "10"),
		holding(5, 4, "40", "40"),
	})

	require.Len(t, positions, 3)
	assert.Equal(t, int64(7), positions[0].StockID)
	assert.Equal(t, int64(3), positions[1].StockID)
	assert.Equal(t, int64(5), positions[2].StockID)
}

func TestAggregateIncrementalMatchesOnePass(t *testing.T) {
	// aggregating a prefix and then folding the remainder must equal
	// aggregating everything in one pass
	all := []model.Holding{
		holding(1, 10, "100", "95"),
		holding(2, 4, "50", "55"),
		holding(1, 5, "130", "95"),
		holding(2, 6, "60", "55"),
		holding(1, 1, "90", "95"),
	}

	onePass := Aggregate(all)

	prefix := Aggregate(all[:3])
	carried := make([]model.Holding, 0, len(all))
	for _, p := range prefix {
		carried = append(carried, model.Holding{
			StockID:      p.StockID,
			Quantity:     p.Quantity,
			AveragePrice: p.AveragePrice,
			CurrentPrice: p.CurrentPrice,
		})
	}
	carried = append(carried, all[3:]...)
	incremental := Aggregate(carried)

	require.Len(t, incremental, len(onePass))
	for i := range onePass {
		assert.Equal(t, onePass[i].StockID, incremental[i].StockID)
		assert.Equal(t, onePass[i].Quantity, incremental[i].Quantity)
		assert.True(t, onePass[i].AveragePrice.Equal(incremental[i].AveragePrice),
			"stock %d: one-pass avg %s, incremental avg %s",
			onePass[i].StockID, onePass[i].AveragePrice, incremental[i].AveragePrice)
	}
}

func TestCurrentValueAndAllocationPercent(t *testing.T) {
	positions := Aggregate([]model.Holding{
		holding(1, 90, "95", "100"),
		holding(2, 10, "95", "100"),
	})

	total := TotalValue(positions)
	assert.True(t, total.Equal(dec("10000")), "got total %s", total)

	assert.True(t, positions[0].CurrentValue().Equal(dec("9000")))
	assert.True(t, positions[0].AllocationPercent(total).Equal(dec("90")))
	assert.True(t, positions[1].AllocationPercent(total).Equal(dec("10")))
}

func TestAllocationPercentZeroTotal(t *testing.T) {
	p := Position{StockID: 1, Quantity: 10, CurrentPrice: dec("5")}
	assert.True(t, p.AllocationPercent(decimal.Zero).IsZero())
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.True(t, TotalValue(nil).IsZero())
}
