package restConverter

import (
	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/restModel"
)

func ConvertStrategySummary(summary model.StrategySummary) restModel.StrategyResponse {
	return restModel.StrategyResponse{
		StrategyID:           summary.StrategyID,
		Name:                 summary.Name,
		TotalFunds:           summary.TotalFunds,
		RemainingCash:        summary.RemainingCash,
		CurrentValue:         summary.CurrentValue,
		ProfitLoss:           summary.ProfitLoss,
		ProfitLossPct:        summary.ProfitLossPct,
		PortfolioAllocations: summary.PortfolioAllocations,
		CreatedAt:            summary.CreatedAt,
	}
}

func ConvertStrategySummaries(summaries []model.StrategySummary) []restModel.StrategyResponse {
	res := make([]restModel.StrategyResponse, 0, len(summaries))
	for _, summary := range summaries {
		res = append(res, ConvertStrategySummary(summary))
	}
	return res
}

func ConvertPositions(positions []holdings.Position) []restModel.PositionResponse {
	totalValue := holdings.TotalValue(positions)

	res := make([]restModel.PositionResponse, 0, len(positions))
	for _, p := range positions {
		res = append(res, restModel.PositionResponse{
			StockID:       p.StockID,
			Symbol:        p.Symbol,
			Quantity:      p.Quantity,
			AveragePrice:  p.AveragePrice,
			CurrentPrice:  p.CurrentPrice,
			CurrentValue:  p.CurrentValue(),
			AllocationPct: p.AllocationPercent(totalValue),
		})
	}
	return res
}

func ConvertRebalancePlan(plan model.RebalancePlan) restModel.RebalancePlanResponse {
	return restModel.RebalancePlanResponse{
		StrategyID:   plan.StrategyID,
		CurrentValue: plan.CurrentValue,
		TargetValue:  plan.TargetValue,
		Actions:      plan.Actions,
		Warnings:     plan.Warnings,
	}
}

func ConvertRebalanceRecord(record model.RebalanceRecord) restModel.RebalanceRecordResponse {
	return restModel.RebalanceRecordResponse{
		RecordID:   record.RecordID,
		StrategyID: record.StrategyID,
		Actions:    record.Actions,
		Executed:   record.Executed,
		Undone:     record.Undone,
		CreatedAt:  record.CreatedAt,
		ExecutedAt: record.ExecutedAt,
		UndoneAt:   record.UndoneAt,
	}
}

func ConvertRebalanceRecords(records []model.RebalanceRecord) []restModel.RebalanceRecordResponse {
	res := make([]restModel.RebalanceRecordResponse, 0, len(records))
	for _, record := range records {
		res = append(res, ConvertRebalanceRecord(record))
	}
	return res
}

func ConvertPortfolio(portfolio model.Portfolio) restModel.PortfolioResponse {
	return restModel.PortfolioResponse{
		PortfolioID: portfolio.PortfolioID,
		Name:        portfolio.Name,
		StockIDs:    portfolio.StockIDs,
		CreatedAt:   portfolio.CreatedAt,
	}
}

func ConvertPortfolios(portfolios []model.Portfolio) []restModel.PortfolioResponse {
	res := make([]restModel.PortfolioResponse, 0, len(portfolios))
	for _, portfolio := range portfolios {
		res = append(res, ConvertPortfolio(portfolio))
	}
	return res
}

func ConvertWatchlists(watchlists []model.Watchlist) []restModel.WatchlistSummaryResponse {
	res := make([]restModel.WatchlistSummaryResponse, 0, len(watchlists))
	for _, watchlist := range watchlists {
		res = append(res, restModel.WatchlistSummaryResponse{
			WatchlistID: watchlist.WatchlistID,
			Name:        watchlist.Name,
			StockIDs:    watchlist.StockIDs,
			CreatedAt:   watchlist.CreatedAt,
		})
	}
	return res
}

func ConvertWatchlist(watchlist model.Watchlist, stocks []model.Stock) restModel.WatchlistResponse {
	return restModel.WatchlistResponse{
		WatchlistID: watchlist.WatchlistID,
		Name:        watchlist.Name,
		Stocks:      ConvertStocks(stocks),
		CreatedAt:   watchlist.CreatedAt,
	}
}

func ConvertStock(stock model.Stock) restModel.StockResponse {
	return restModel.StockResponse{
		StockID:      stock.StockID,
		Symbol:       stock.Symbol,
		Name:         stock.Name,
		Sector:       stock.Sector,
		CurrentPrice: stock.CurrentPrice,
		UpdatedAt:    stock.UpdatedAt,
	}
}

func ConvertStocks(stocks []model.Stock) []restModel.StockResponse {
	res := make([]restModel.StockResponse, 0, len(stocks))
	for _, stock := range stocks {
		res = append(res, ConvertStock(stock))
	}
	return res
}
