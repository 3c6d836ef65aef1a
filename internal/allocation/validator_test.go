package allocation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func draft(funds string, allocations ...model.PortfolioAllocation) model.StrategyDraft {
	return model.StrategyDraft{
		Name:                 "test strategy",
		TotalFunds:           dec(funds),
		PortfolioAllocations: allocations,
	}
}

func sa(stockID int64, pct string) model.StockAllocation {
	return model.StockAllocation{StockID: stockID, Percentage: dec(pct)}
}

func pa(portfolioID int64, pct string, stocks ...model.StockAllocation) model.PortfolioAllocation {
	return model.PortfolioAllocation{
		PortfolioID:      portfolioID,
		Percentage:       dec(pct),
		StockAllocations: stocks,
	}
}

func TestValidateOK(t *testing.T) {
	tests := []struct {
		name  string
		draft model.StrategyDraft
	}{
		{
			name:  "single portfolio single stock",
			draft: draft("10000", pa(1, "100", sa(1, "100"))),
		},
		{
			name: "two portfolios",
			draft: draft("50000",
				pa(1, "60", sa(1, "50"), sa(2, "50")),
				pa(2, "40", sa(3, "100")),
			),
		},
		{
			name: "sums off by exactly the tolerance",
			draft: draft("1000",
				pa(1, "99.995", sa(1, "100.01")),
				pa(2, "0.015", sa(2, "99.99")),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, Validate(tt.draft))
		})
	}
}

func TestValidateEmptyAllocation(t *testing.T) {
	err := Validate(draft("1000"))
	assert.ErrorIs(t, err, ErrEmptyAllocation)
}

func TestValidateInvalidFunds(t *testing.T) {
	for _, funds := range []string{"0", "-1", "-10000"} {
		err := Validate(draft(funds, pa(1, "100", sa(1, "100"))))
		assert.ErrorIs(t, err, ErrInvalidFunds, "funds=%s", funds)
	}
}

func TestValidatePortfolioMismatch(t *testing.T) {
	err := Validate(draft("1000",
		pa(1, "60", sa(1, "100")),
		pa(2, "39.98", sa(2, "100")),
	))

	var mismatch *PortfolioMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.Sum.Equal(dec("99.98")), "got sum %s", mismatch.Sum)
}

func TestValidateStockMismatch(t *testing.T) {
	err := Validate(draft("1000",
		pa(1, "50", sa(1, "100")),
		pa(2, "50", sa(2, "70"), sa(3, "29")),
	))

	var mismatch *StockMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(2), mismatch.PortfolioID)
	assert.True(t, mismatch.Sum.Equal(dec("99")), "got sum %s", mismatch.Sum)
}

func TestValidateChecksPortfolioLevelFirst(t *testing.T) {
	// both levels broken: the portfolio-level failure wins
	err := Validate(draft("1000", pa(1, "90", sa(1, "90"))))

	var mismatch *PortfolioMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestValidateIsPure(t *testing.T) {
	d := draft("1000", pa(1, "100", sa(1, "60"), sa(2, "40")))

	require.NoError(t, Validate(d))
	require.NoError(t, Validate(d))

	assert.True(t, errors.Is(Validate(draft("0")), ErrInvalidFunds))
}
