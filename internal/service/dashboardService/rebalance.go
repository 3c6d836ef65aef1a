package dashboardService

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/data/lock"
	"github.com/mfarghaly/egx_dashboard_api/data/repository"
	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/rebalance"
	"github.com/mfarghaly/egx_dashboard_api/internal/service"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

// CalculateRebalance prices the strategy and produces a plan of buy/sell
// actions. A non-empty plan is persisted as a pending history record, which
// ExecuteRebalance later picks up.
func (s *DashboardService) CalculateRebalance(ctx context.Context, strategyID int64) (plan model.RebalancePlan, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.CalculateRebalance"

	slog.Debug("CalculateRebalance start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("CalculateRebalance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CalculateRebalance completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("actions", len(plan.Actions)))
		}
	}()

	strategy, err := s.repo.GetStrategy(ctx, strategyID)
	if err != nil {
		return model.RebalancePlan{}, mapRepoErr(err)
	}

	hs, err := s.repo.GetHoldings(ctx, strategyID)
	if err != nil {
		return model.RebalancePlan{}, err
	}
	positions := holdings.Aggregate(hs)

	stockIDs := allocationStockIDs(strategy.PortfolioAllocations)
	seen := make(map[int64]struct{}, len(stockIDs))
	for _, id := range stockIDs {
		seen[id] = struct{}{}
	}
	for _, p := range positions {
		if _, ok := seen[p.StockID]; !ok {
			stockIDs = append(stockIDs, p.StockID)
			seen[p.StockID] = struct{}{}
		}
	}

	stocks, err := s.getQuotedStocks(ctx, stockIDs)
	if err != nil {
		return model.RebalancePlan{}, err
	}

	plan = rebalance.Plan(strategy, positions, stocks)

	if len(plan.Actions) > 0 {
		if _, err = s.repo.InsertRebalanceRecord(ctx, strategyID, plan.Actions); err != nil {
			return model.RebalancePlan{}, err
		}
	}

	return plan, nil
}

// ExecuteRebalance applies the latest pending plan to the booked holdings.
// A per-strategy lock serializes executions so two concurrent requests
// cannot both spend the same cash.
func (s *DashboardService) ExecuteRebalance(ctx context.Context, strategyID int64) (record model.RebalanceRecord, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.ExecuteRebalance"

	slog.Debug("ExecuteRebalance start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("ExecuteRebalance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("ExecuteRebalance completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("recordID", record.RecordID))
		}
	}()

	token, err := s.lock.Acquire(ctx, strategyID)
	if err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return model.RebalanceRecord{}, service.ErrRebalanceInProgress
		}
		return model.RebalanceRecord{}, err
	}
	defer func() {
		if releaseErr := s.lock.Release(ctx, strategyID, token); releaseErr != nil {
			slog.Warn("failed releasing rebalance lock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", releaseErr.Error()))
		}
	}()

	record, err = s.repo.GetLatestPendingRebalance(ctx, strategyID)
	if err != nil {
		return model.RebalanceRecord{}, mapRepoErr(err)
	}

	strategy, err := s.repo.GetStrategy(ctx, strategyID)
	if err != nil {
		return model.RebalanceRecord{}, mapRepoErr(err)
	}

	hs, err := s.repo.GetHoldings(ctx, strategyID)
	if err != nil {
		return model.RebalanceRecord{}, err
	}

	app := s.applyActions(ctx, strategy, hs, record.Actions, false)
	app.RecordID = record.RecordID

	if err = s.repo.ApplyRebalance(ctx, app); err != nil {
		return model.RebalanceRecord{}, err
	}

	if cacheErr := s.cache.FlushStrategyCache(ctx, strategyID); cacheErr != nil {
		slog.Warn("failed flushing strategy cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", cacheErr.Error()))
	}

	record.Executed = true
	return record, nil
}

// UndoRebalance reverses an executed record at its recorded prices: buys
// are sold back, sells are bought back. The record is re-read under the
// lock so the executed/undone guards hold against concurrent executions.
func (s *DashboardService) UndoRebalance(ctx context.Context, recordID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.UndoRebalance"

	slog.Debug("UndoRebalance start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("recordID", recordID))
	defer func() {
		if err != nil {
			slog.Error("UndoRebalance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UndoRebalance completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	record, err := s.repo.GetRebalanceRecord(ctx, recordID)
	if err != nil {
		return mapRepoErr(err)
	}
	strategyID := record.StrategyID

	token, err := s.lock.Acquire(ctx, strategyID)
	if err != nil {
		if errors.Is(err, lock.ErrAlreadyLocked) {
			return service.ErrRebalanceInProgress
		}
		return err
	}
	defer func() {
		if releaseErr := s.lock.Release(ctx, strategyID, token); releaseErr != nil {
			slog.Warn("failed releasing rebalance lock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", releaseErr.Error()))
		}
	}()

	record, err = s.repo.GetRebalanceRecord(ctx, recordID)
	if err != nil {
		return mapRepoErr(err)
	}
	if !record.Executed {
		return service.ErrRebalanceNotExecuted
	}
	if record.Undone {
		return service.ErrRebalanceAlreadyUndone
	}

	strategy, err := s.repo.GetStrategy(ctx, strategyID)
	if err != nil {
		return mapRepoErr(err)
	}

	hs, err := s.repo.GetHoldings(ctx, strategyID)
	if err != nil {
		return err
	}

	app := s.applyActions(ctx, strategy, hs, record.Actions, true)
	app.RecordID = record.RecordID
	app.MarkUndone = true

	if err = s.repo.ApplyRebalance(ctx, app); err != nil {
		return err
	}

	if cacheErr := s.cache.FlushStrategyCache(ctx, strategyID); cacheErr != nil {
		slog.Warn("failed flushing strategy cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", cacheErr.Error()))
	}

	return nil
}

func (s *DashboardService) GetRebalanceHistory(ctx context.Context, strategyID int64) (records []model.RebalanceRecord, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetRebalanceHistory"

	slog.Debug("GetRebalanceHistory start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetRebalanceHistory failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetRebalanceHistory completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("records", len(records)))
		}
	}()

	if _, err = s.repo.GetStrategy(ctx, strategyID); err != nil {
		return nil, mapRepoErr(err)
	}

	records, err = s.repo.GetRebalanceRecords(ctx, strategyID)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// applyActions turns a list of plan actions into concrete holding mutations
// plus the resulting cash balance. With reverse set, every buy is treated
// as a sell and vice versa, at the recorded prices.
func (s *DashboardService) applyActions(
	ctx context.Context,
	strategy model.Strategy,
	hs []model.Holding,
	actions []model.RebalanceAction,
	reverse bool,
) repository.RebalanceApplication {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.applyActions"

	byStock := make(map[int64][]*model.Holding)
	for i := range hs {
		byStock[hs[i].StockID] = append(byStock[hs[i].StockID], &hs[i])
	}

	cash := strategy.RemainingCash
	touched := make(map[int64]*model.Holding)
	var inserts []model.Holding
	var deleteIDs []int64

	for _, action := range actions {
		side := action.Side
		if reverse {
			if side == model.Buy {
				side = model.Sell
			} else {
				side = model.Buy
			}
		}

		qty := decimal.NewFromInt(action.Quantity)

		switch side {
		case model.Buy:
			cost := action.Price.Mul(qty)
			cash = cash.Sub(cost)

			if rows := byStock[action.StockID]; len(rows) > 0 {
				h := rows[0]
				newQty := h.Quantity + action.Quantity
				// incremental weighted average, consistent with aggregation
				h.AveragePrice = h.AveragePrice.
					Mul(decimal.NewFromInt(h.Quantity)).
					Add(cost).
					Div(decimal.NewFromInt(newQty))
				h.Quantity = newQty
				touched[h.HoldingID] = h
			} else {
				inserts = append(inserts, model.Holding{
					StrategyID:   strategy.StrategyID,
					PortfolioID:  portfolioForStock(strategy.PortfolioAllocations, action.StockID),
					StockID:      action.StockID,
					Quantity:     action.Quantity,
					AveragePrice: action.Price,
				})
			}

		case model.Sell:
			remaining := action.Quantity
			for _, h := range byStock[action.StockID] {
				if remaining == 0 {
					break
				}
				take := h.Quantity
				if take > remaining {
					take = remaining
				}
				cash = cash.Add(action.Price.Mul(decimal.NewFromInt(take)))
				h.Quantity -= take
				remaining -= take

				if h.Quantity == 0 {
					deleteIDs = append(deleteIDs, h.HoldingID)
					delete(touched, h.HoldingID)
				} else {
					touched[h.HoldingID] = h
				}
			}
			if remaining > 0 {
				slog.Warn(
					"sell exceeds booked quantity, remainder skipped",
					slog.String("rqID", rqID),
					slog.String("op", op),
					slog.Int64("stockID", action.StockID),
					slog.Int64("remaining", remaining),
				)
			}
		}
	}

	upserts := make([]model.Holding, 0, len(touched)+len(inserts))
	for i := range hs {
		if h, ok := touched[hs[i].HoldingID]; ok {
			upserts = append(upserts, *h)
		}
	}
	upserts = append(upserts, inserts...)

	return repository.RebalanceApplication{
		StrategyID:    strategy.StrategyID,
		RemainingCash: cash,
		Upserts:       upserts,
		DeleteIDs:     deleteIDs,
	}
}

// portfolioForStock picks the first portfolio whose allocation mentions the
// stock, so fresh buys land next to their target.
func portfolioForStock(pas []model.PortfolioAllocation, stockID int64) int64 {
	for _, pa := range pas {
		for _, sa := range pa.StockAllocations {
			if sa.StockID == stockID {
				return pa.PortfolioID
			}
		}
	}
	return 0
}
