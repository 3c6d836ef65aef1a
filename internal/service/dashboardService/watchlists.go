package dashboardService

import (
	"context"
	"log/slog"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

func (s *DashboardService) CreateWatchlist(ctx context.Context, name string, stockIDs []int64) (watchlistID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.CreateWatchlist"

	slog.Debug("CreateWatchlist start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	defer func() {
		if err != nil {
			slog.Error("CreateWatchlist failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateWatchlist completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("watchlistID", watchlistID))
		}
	}()

	watchlistID, err = s.repo.CreateWatchlist(ctx, name, stockIDs)
	if err != nil {
		return 0, mapRepoErr(err)
	}

	return watchlistID, nil
}

func (s *DashboardService) GetWatchlists(ctx context.Context) (watchlists []model.Watchlist, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetWatchlists"

	slog.Debug("GetWatchlists start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GetWatchlists failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetWatchlists completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(watchlists)))
		}
	}()

	return s.repo.GetWatchlists(ctx)
}

// GetWatchlist resolves the stored stock ids into full quoted stocks so the
// dashboard can render prices without a second round trip.
func (s *DashboardService) GetWatchlist(ctx context.Context, watchlistID int64) (watchlist model.Watchlist, stocks []model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetWatchlist"

	slog.Debug("GetWatchlist start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("watchlistID", watchlistID))
	defer func() {
		if err != nil {
			slog.Error("GetWatchlist failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetWatchlist completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	watchlist, err = s.repo.GetWatchlist(ctx, watchlistID)
	if err != nil {
		return model.Watchlist{}, nil, mapRepoErr(err)
	}

	quoted, err := s.getQuotedStocks(ctx, watchlist.StockIDs)
	if err != nil {
		return model.Watchlist{}, nil, err
	}

	stocks = make([]model.Stock, 0, len(watchlist.StockIDs))
	for _, id := range watchlist.StockIDs {
		if stock, ok := quoted[id]; ok {
			stocks = append(stocks, stock)
		}
	}

	return watchlist, stocks, nil
}

func (s *DashboardService) UpdateWatchlist(ctx context.Context, watchlistID int64, name string, stockIDs []int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.UpdateWatchlist"

	slog.Debug("UpdateWatchlist start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("watchlistID", watchlistID))
	defer func() {
		if err != nil {
			slog.Error("UpdateWatchlist failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateWatchlist completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if err = s.repo.UpdateWatchlist(ctx, watchlistID, name, stockIDs); err != nil {
		return mapRepoErr(err)
	}

	return nil
}

func (s *DashboardService) DeleteWatchlist(ctx context.Context, watchlistID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.DeleteWatchlist"

	slog.Debug("DeleteWatchlist start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("watchlistID", watchlistID))
	defer func() {
		if err != nil {
			slog.Error("DeleteWatchlist failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteWatchlist completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if err = s.repo.DeleteWatchlist(ctx, watchlistID); err != nil {
		return mapRepoErr(err)
	}

	return nil
}
