package dashboardService

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/data/cache"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

func (s *DashboardService) GetStocks(ctx context.Context) (stocks []model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetStocks"

	slog.Debug("GetStocks start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GetStocks failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStocks completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(stocks)))
		}
	}()

	return s.repo.GetStocks(ctx)
}

func (s *DashboardService) GetStockBySymbol(ctx context.Context, symbol string) (stock model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetStockBySymbol"

	slog.Debug("GetStockBySymbol start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		if err != nil {
			slog.Error("GetStockBySymbol failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStockBySymbol completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	stock, err = s.repo.GetStockBySymbol(ctx, symbol)
	if err != nil {
		return model.Stock{}, mapRepoErr(err)
	}

	// Overlay the freshest known price: cached quote first, live feed on miss.
	cached, cacheErr := s.cache.GetQuote(ctx, stock.StockID)
	switch {
	case cacheErr == nil:
		stock.CurrentPrice = cached.CurrentPrice
	case errors.Is(cacheErr, cache.ErrCacheMiss):
		quote, feedErr := s.egxApi.GetQuote(ctx, symbol)
		if feedErr != nil {
			slog.Warn("live quote unavailable, serving stored price", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", feedErr.Error()))
		} else if quote.Price.IsPositive() {
			stock.CurrentPrice = quote.Price
		}
	default:
		slog.Warn("quote cache error, serving stored price", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", cacheErr.Error()))
	}

	return stock, nil
}

// GetStockPrices returns quoted stocks for the requested ids, cache-first.
// With no ids it returns the whole universe from the stocks table.
func (s *DashboardService) GetStockPrices(ctx context.Context, stockIDs []int64) (stocks []model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetStockPrices"

	slog.Debug("GetStockPrices start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("stockIDs", stockIDs))
	defer func() {
		if err != nil {
			slog.Error("GetStockPrices failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStockPrices completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(stocks)))
		}
	}()

	if len(stockIDs) == 0 {
		return s.repo.GetStocks(ctx)
	}

	quoted, err := s.getQuotedStocks(ctx, stockIDs)
	if err != nil {
		return nil, err
	}

	stocks = make([]model.Stock, 0, len(stockIDs))
	for _, id := range stockIDs {
		if stock, ok := quoted[id]; ok {
			stocks = append(stocks, stock)
		}
	}

	return stocks, nil
}

// RefreshQuotes pulls the full quote feed, upserts it into the stocks table
// and reloads the quote cache. Runs on an interval job.
func (s *DashboardService) RefreshQuotes(ctx context.Context) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.RefreshQuotes"

	slog.Debug("RefreshQuotes start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("RefreshQuotes failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("RefreshQuotes completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	quotes, err := s.egxApi.GetQuotes(ctx)
	if err != nil {
		return err
	}

	stocks := make([]model.Stock, 0, len(quotes))
	for _, q := range quotes {
		if !q.Active {
			continue
		}
		stocks = append(stocks, model.Stock{
			Symbol:       q.Symbol,
			Name:         q.Name,
			Sector:       q.Sector,
			CurrentPrice: q.Price,
		})
	}

	if len(stocks) == 0 {
		slog.Warn("quote feed returned no active stocks", slog.String("rqID", rqID), slog.String("op", op))
		return nil
	}

	if err = s.repo.UpsertStocks(ctx, stocks); err != nil {
		return err
	}

	// re-read to pick up assigned stock ids before caching
	stored, err := s.repo.GetStocks(ctx)
	if err != nil {
		return err
	}

	if err = s.cache.SetQuotes(ctx, stored); err != nil {
		return err
	}

	return nil
}

// TakeDailySnapshots records one value point per strategy and per portfolio
// for today. Strategy value is holdings plus cash, portfolio value is the
// plain sum of constituent prices (an unweighted price index). Snapshotting
// is idempotent within a day, re-running overwrites today's points.
func (s *DashboardService) TakeDailySnapshots(ctx context.Context) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.TakeDailySnapshots"

	slog.Debug("TakeDailySnapshots start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("TakeDailySnapshots failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("TakeDailySnapshots completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	today := time.Now().UTC().Truncate(24 * time.Hour)

	strategies, err := s.repo.GetStrategies(ctx)
	if err != nil {
		return err
	}

	for _, strategy := range strategies {
		summary, buildErr := s.buildSummary(ctx, strategy)
		if buildErr != nil {
			slog.Error("failed building summary for snapshot", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategy.StrategyID), slog.String("err", buildErr.Error()))
			continue
		}
		if insertErr := s.repo.InsertStrategySnapshot(ctx, strategy.StrategyID, summary.CurrentValue, today); insertErr != nil {
			slog.Error("failed inserting strategy snapshot", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategy.StrategyID), slog.String("err", insertErr.Error()))
		}
	}

	portfolios, err := s.repo.GetPortfolios(ctx)
	if err != nil {
		return err
	}

	for _, portfolio := range portfolios {
		stocks, pricesErr := s.getQuotedStocks(ctx, portfolio.StockIDs)
		if pricesErr != nil {
			slog.Error("failed pricing portfolio for snapshot", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolio.PortfolioID), slog.String("err", pricesErr.Error()))
			continue
		}

		value := decimal.Zero
		for _, id := range portfolio.StockIDs {
			if stock, ok := stocks[id]; ok {
				value = value.Add(stock.CurrentPrice)
			}
		}

		if insertErr := s.repo.InsertPortfolioSnapshot(ctx, portfolio.PortfolioID, value, today); insertErr != nil {
			slog.Error("failed inserting portfolio snapshot", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolio.PortfolioID), slog.String("err", insertErr.Error()))
		}
	}

	return nil
}

// CleanupReports deletes expired report files from cloud storage. No-op
// when uploads are disabled.
func (s *DashboardService) CleanupReports(ctx context.Context) error {
	if s.cloudStorage == nil {
		return nil
	}
	return s.cloudStorage.DeleteOldFiles(ctx)
}
