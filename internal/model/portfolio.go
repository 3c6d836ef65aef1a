package model

import "time"

type Portfolio struct {
	PortfolioID int64
	Name        string
	StockIDs    []int64
	CreatedAt   time.Time
}

type Watchlist struct {
	WatchlistID int64
	Name        string
	StockIDs    []int64
	CreatedAt   time.Time
}
