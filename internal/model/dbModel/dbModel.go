package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	StockID      int64           `db:"stock_id"`
	Symbol       string          `db:"symbol"`
	Name         string          `db:"name"`
	Sector       string          `db:"sector"`
	CurrentPrice decimal.Decimal `db:"current_price"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

type Portfolio struct {
	PortfolioID int64     `db:"portfolio_id"`
	Name        string    `db:"name"`
	StockIDs    []byte    `db:"stock_ids"` // jsonb array
	CreatedAt   time.Time `db:"created_at"`
}

type Watchlist struct {
	WatchlistID int64     `db:"watchlist_id"`
	Name        string    `db:"name"`
	StockIDs    []byte    `db:"stock_ids"` // jsonb array
	CreatedAt   time.Time `db:"created_at"`
}

type Strategy struct {
	StrategyID           int64           `db:"strategy_id"`
	Name                 string          `db:"name"`
	TotalFunds           decimal.Decimal `db:"total_funds"`
	RemainingCash        decimal.Decimal `db:"remaining_cash"`
	PortfolioAllocations []byte          `db:"portfolio_allocations"` // jsonb
	CreatedAt            time.Time       `db:"created_at"`
}

type Holding struct {
	HoldingID    int64           `db:"holding_id"`
	StrategyID   int64           `db:"strategy_id"`
	PortfolioID  int64           `db:"portfolio_id"`
	StockID      int64           `db:"stock_id"`
	Symbol       string          `db:"symbol"`
	Quantity     int64           `db:"quantity"`
	AveragePrice decimal.Decimal `db:"average_price"`
	CurrentPrice decimal.Decimal `db:"current_price"`
	PurchaseDate time.Time       `db:"purchase_date"`
}

type RebalanceRecord struct {
	RecordID   int64      `db:"record_id"`
	StrategyID int64      `db:"strategy_id"`
	Actions    []byte     `db:"actions"` // jsonb
	Executed   bool       `db:"executed"`
	Undone     bool       `db:"undone"`
	CreatedAt  time.Time  `db:"created_at"`
	ExecutedAt *time.Time `db:"executed_at"`
	UndoneAt   *time.Time `db:"undone_at"`
}

type Snapshot struct {
	SnapshotID   int64           `db:"snapshot_id"`
	OwnerID      int64           `db:"owner_id"`
	TotalValue   decimal.Decimal `db:"total_value"`
	SnapshotDate time.Time       `db:"snapshot_date"`
}
