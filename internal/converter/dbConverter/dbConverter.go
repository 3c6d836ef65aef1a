package dbConverter

import (
	"encoding/json"
	"fmt"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/dbModel"
)

func ConvertStock(s dbModel.Stock) model.Stock {
	return model.Stock{
		StockID:      s.StockID,
		Symbol:       s.Symbol,
		Name:         s.Name,
		Sector:       s.Sector,
		CurrentPrice: s.CurrentPrice,
		UpdatedAt:    s.UpdatedAt,
	}
}

func ConvertPortfolio(p dbModel.Portfolio) (model.Portfolio, error) {
	portfolio := model.Portfolio{
		PortfolioID: p.PortfolioID,
		Name:        p.Name,
		CreatedAt:   p.CreatedAt,
	}

	if len(p.StockIDs) > 0 {
		if err := json.Unmarshal(p.StockIDs, &portfolio.StockIDs); err != nil {
			return model.Portfolio{}, fmt.Errorf("unmarshal portfolio %d stock_ids: %w", p.PortfolioID, err)
		}
	}

	return portfolio, nil
}

func ConvertWatchlist(w dbModel.Watchlist) (model.Watchlist, error) {
	watchlist := model.Watchlist{
		WatchlistID: w.WatchlistID,
		Name:        w.Name,
		CreatedAt:   w.CreatedAt,
	}

	if len(w.StockIDs) > 0 {
		if err := json.Unmarshal(w.StockIDs, &watchlist.StockIDs); err != nil {
			return model.Watchlist{}, fmt.Errorf("unmarshal watchlist %d stock_ids: %w", w.WatchlistID, err)
		}
	}

	return watchlist, nil
}

func ConvertStrategy(s dbModel.Strategy) (model.Strategy, error) {
	strategy := model.Strategy{
		StrategyID:    s.StrategyID,
		Name:          s.Name,
		TotalFunds:    s.TotalFunds,
		RemainingCash: s.RemainingCash,
		CreatedAt:     s.CreatedAt,
	}

	if len(s.PortfolioAllocations) > 0 {
		if err := json.Unmarshal(s.PortfolioAllocations, &strategy.PortfolioAllocations); err != nil {
			return model.Strategy{}, fmt.Errorf("unmarshal strategy %d allocations: %w", s.StrategyID, err)
		}
	}

	return strategy, nil
}

func ConvertHolding(h dbModel.Holding) model.Holding {
	return model.Holding{
		HoldingID:    h.HoldingID,
		StrategyID:   h.StrategyID,
		PortfolioID:  h.PortfolioID,
		StockID:      h.StockID,
		Symbol:       h.Symbol,
		Quantity:     h.Quantity,
		AveragePrice: h.AveragePrice,
		CurrentPrice: h.CurrentPrice,
		PurchaseDate: h.PurchaseDate,
	}
}

func ConvertRebalanceRecord(r dbModel.RebalanceRecord) (model.RebalanceRecord, error) {
	record := model.RebalanceRecord{
		RecordID:   r.RecordID,
		StrategyID: r.StrategyID,
		Executed:   r.Executed,
		Undone:     r.Undone,
		CreatedAt:  r.CreatedAt,
		ExecutedAt: r.ExecutedAt,
		UndoneAt:   r.UndoneAt,
	}

	if len(r.Actions) > 0 {
		if err := json.Unmarshal(r.Actions, &record.Actions); err != nil {
			return model.RebalanceRecord{}, fmt.Errorf("unmarshal rebalance record %d actions: %w", r.RecordID, err)
		}
	}

	return record, nil
}

func ConvertSnapshot(s dbModel.Snapshot) model.PerformancePoint {
	return model.PerformancePoint{
		Date:  s.SnapshotDate,
		Value: s.TotalValue,
	}
}
