package dashboardService

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/data/cache"
	"github.com/mfarghaly/egx_dashboard_api/data/repository"
	"github.com/mfarghaly/egx_dashboard_api/internal/allocation"
	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

var hundred = decimal.NewFromInt(100)

// CreateStrategy validates the draft, persists it and buys the initial
// positions: each stock gets floor(stockFunds / price) shares, whatever
// cannot be invested stays as cash.
func (s *DashboardService) CreateStrategy(ctx context.Context, draft model.StrategyDraft) (strategyID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.CreateStrategy"

	slog.Debug("CreateStrategy start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", draft.Name))
	defer func() {
		if err != nil {
			slog.Error("CreateStrategy failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateStrategy completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
		}
	}()

	if err = allocation.Validate(draft); err != nil {
		return 0, err
	}

	stocks, err := s.getQuotedStocks(ctx, allocationStockIDs(draft.PortfolioAllocations))
	if err != nil {
		return 0, err
	}

	strategyID, err = s.repo.CreateStrategy(ctx, draft)
	if err != nil {
		return 0, mapRepoErr(err)
	}

	invested := decimal.Zero
	var initial []model.Holding
	for _, pa := range draft.PortfolioAllocations {
		for _, sa := range pa.StockAllocations {
			stock, ok := stocks[sa.StockID]
			if !ok || !stock.CurrentPrice.IsPositive() {
				slog.Warn(
					"no current price for stock, initial purchase skipped",
					slog.String("rqID", rqID),
					slog.String("op", op),
					slog.Int64("stockID", sa.StockID),
				)
				continue
			}

			stockFunds := draft.TotalFunds.
				Mul(pa.Percentage).Div(hundred).
				Mul(sa.Percentage).Div(hundred)

			qty := stockFunds.Div(stock.CurrentPrice).Floor().IntPart()
			if qty == 0 {
				continue
			}

			invested = invested.Add(stock.CurrentPrice.Mul(decimal.NewFromInt(qty)))
			initial = append(initial, model.Holding{
				StrategyID:   strategyID,
				PortfolioID:  pa.PortfolioID,
				StockID:      sa.StockID,
				Quantity:     qty,
				AveragePrice: stock.CurrentPrice,
			})
		}
	}

	if len(initial) > 0 {
		err = s.repo.ApplyRebalance(ctx, repository.RebalanceApplication{
			StrategyID:    strategyID,
			RemainingCash: draft.TotalFunds.Sub(invested),
			Upserts:       initial,
		})
		if err != nil {
			return 0, err
		}
	}

	err = s.repo.InsertStrategySnapshot(ctx, strategyID, draft.TotalFunds, time.Now().UTC())
	if err != nil {
		slog.Warn("failed to insert initial strategy snapshot", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		err = nil
	}

	return strategyID, nil
}

func (s *DashboardService) GetStrategies(ctx context.Context) (summaries []model.StrategySummary, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetStrategies"

	slog.Debug("GetStrategies start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GetStrategies failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStrategies completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(summaries)))
		}
	}()

	strategies, err := s.repo.GetStrategies(ctx)
	if err != nil {
		return nil, err
	}

	summaries = make([]model.StrategySummary, 0, len(strategies))
	for _, strategy := range strategies {
		summary, err := s.buildSummary(ctx, strategy)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *DashboardService) GetStrategy(ctx context.Context, strategyID int64) (summary model.StrategySummary, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetStrategy"

	slog.Debug("GetStrategy start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetStrategy failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStrategy completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	summary, cacheErr := s.cache.GetStrategySummary(ctx, strategyID)
	if cacheErr == nil {
		return summary, nil
	}
	if !errors.Is(cacheErr, cache.ErrCacheMiss) {
		slog.Warn("failed reading strategy summary from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", cacheErr.Error()))
	}

	strategy, err := s.repo.GetStrategy(ctx, strategyID)
	if err != nil {
		return model.StrategySummary{}, mapRepoErr(err)
	}

	summary, err = s.buildSummary(ctx, strategy)
	if err != nil {
		return model.StrategySummary{}, err
	}

	if cacheErr := s.cache.SetStrategySummary(ctx, strategyID, summary); cacheErr != nil {
		slog.Warn("failed writing strategy summary to cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", cacheErr.Error()))
	}

	return summary, nil
}

// UpdateStrategy rewrites the name, funds and target allocations. Holdings
// stay as they are until the next rebalance realigns them.
func (s *DashboardService) UpdateStrategy(ctx context.Context, strategyID int64, draft model.StrategyDraft) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.UpdateStrategy"

	slog.Debug("UpdateStrategy start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("UpdateStrategy failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateStrategy completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if err = allocation.Validate(draft); err != nil {
		return err
	}

	if err = s.repo.UpdateStrategy(ctx, strategyID, draft); err != nil {
		return mapRepoErr(err)
	}

	if cacheErr := s.cache.FlushStrategyCache(ctx, strategyID); cacheErr != nil {
		slog.Warn("failed flushing strategy cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", cacheErr.Error()))
	}

	return nil
}

func (s *DashboardService) DeleteStrategy(ctx context.Context, strategyID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.DeleteStrategy"

	slog.Debug("DeleteStrategy start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("DeleteStrategy failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteStrategy completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if err = s.repo.DeleteStrategy(ctx, strategyID); err != nil {
		return mapRepoErr(err)
	}

	if cacheErr := s.cache.FlushStrategyCache(ctx, strategyID); cacheErr != nil {
		slog.Warn("failed flushing strategy cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", cacheErr.Error()))
	}

	return nil
}

func (s *DashboardService) GetStrategyHoldings(ctx context.Context, strategyID int64) (positions []holdings.Position, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetStrategyHoldings"

	slog.Debug("GetStrategyHoldings start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetStrategyHoldings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStrategyHoldings completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("positions", len(positions)))
		}
	}()

	if _, err = s.repo.GetStrategy(ctx, strategyID); err != nil {
		return nil, mapRepoErr(err)
	}

	hs, err := s.repo.GetHoldings(ctx, strategyID)
	if err != nil {
		return nil, err
	}

	return holdings.Aggregate(hs), nil
}

func (s *DashboardService) GetStrategyPerformance(ctx context.Context, strategyID int64) (series model.PerformanceSeries, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetStrategyPerformance"

	slog.Debug("GetStrategyPerformance start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetStrategyPerformance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStrategyPerformance completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("points", len(series.Points)))
		}
	}()

	strategy, err := s.repo.GetStrategy(ctx, strategyID)
	if err != nil {
		return model.PerformanceSeries{}, mapRepoErr(err)
	}

	points, err := s.repo.GetStrategySnapshots(ctx, strategyID)
	if err != nil {
		return model.PerformanceSeries{}, err
	}

	return model.PerformanceSeries{
		PortfolioID: strategy.StrategyID,
		Name:        strategy.Name,
		Points:      points,
	}, nil
}

// allocationStockIDs collects the distinct stock ids across all portfolio
// allocations, in first-seen order.
func allocationStockIDs(pas []model.PortfolioAllocation) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, pa := range pas {
		for _, sa := range pa.StockAllocations {
			if _, ok := seen[sa.StockID]; ok {
				continue
			}
			seen[sa.StockID] = struct{}{}
			ids = append(ids, sa.StockID)
		}
	}
	return ids
}
