package dashboardService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mfarghaly/egx_dashboard_api/data/repository"
	"github.com/mfarghaly/egx_dashboard_api/internal/analytics"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

func (s *DashboardService) CreatePortfolio(ctx context.Context, name string, stockIDs []int64) (portfolioID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.CreatePortfolio"

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	defer func() {
		if err != nil {
			slog.Error("CreatePortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreatePortfolio completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
		}
	}()

	portfolioID, err = s.repo.CreatePortfolio(ctx, name, stockIDs)
	if err != nil {
		return 0, mapRepoErr(err)
	}

	return portfolioID, nil
}

func (s *DashboardService) GetPortfolios(ctx context.Context) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetPortfolios"

	slog.Debug("GetPortfolios start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolios failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolios completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(portfolios)))
		}
	}()

	return s.repo.GetPortfolios(ctx)
}

func (s *DashboardService) GetPortfolio(ctx context.Context, portfolioID int64) (portfolio model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetPortfolio"

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolio completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	portfolio, err = s.repo.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return model.Portfolio{}, mapRepoErr(err)
	}

	return portfolio, nil
}

func (s *DashboardService) UpdatePortfolio(ctx context.Context, portfolioID int64, name string, stockIDs []int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.UpdatePortfolio"

	slog.Debug("UpdatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("UpdatePortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdatePortfolio completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if err = s.repo.UpdatePortfolio(ctx, portfolioID, name, stockIDs); err != nil {
		return mapRepoErr(err)
	}

	return nil
}

func (s *DashboardService) DeletePortfolio(ctx context.Context, portfolioID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.DeletePortfolio"

	slog.Debug("DeletePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("DeletePortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeletePortfolio completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if err = s.repo.DeletePortfolio(ctx, portfolioID); err != nil {
		return mapRepoErr(err)
	}

	return nil
}

func (s *DashboardService) GetPortfolioPerformance(ctx context.Context, portfolioID int64) (series model.PerformanceSeries, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GetPortfolioPerformance"

	slog.Debug("GetPortfolioPerformance start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolioPerformance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolioPerformance completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("points", len(series.Points)))
		}
	}()

	series, err = s.portfolioSeries(ctx, portfolioID)
	if err != nil {
		return model.PerformanceSeries{}, mapRepoErr(err)
	}

	return series, nil
}

// ComparePortfolios computes performance stats and pairwise correlations
// over the requested portfolios. A portfolio whose series cannot be loaded
// is skipped with a warning instead of failing the whole comparison.
func (s *DashboardService) ComparePortfolios(ctx context.Context, portfolioIDs []int64) (report model.ComparisonReport, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.ComparePortfolios"

	slog.Debug("ComparePortfolios start", slog.String("rqID", rqID), slog.String("op", op), slog.Any("portfolioIDs", portfolioIDs))
	defer func() {
		if err != nil {
			slog.Error("ComparePortfolios failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("ComparePortfolios completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	var warnings []string
	series := make([]model.PerformanceSeries, 0, len(portfolioIDs))
	for _, id := range portfolioIDs {
		one, seriesErr := s.portfolioSeries(ctx, id)
		if seriesErr != nil {
			if errors.Is(seriesErr, repository.ErrNotFound) {
				warnings = append(warnings, fmt.Sprintf("portfolio %d not found, skipped", id))
				continue
			}
			return model.ComparisonReport{}, seriesErr
		}
		series = append(series, one)
	}

	report = analytics.Compare(series)
	report.Warnings = append(report.Warnings, warnings...)

	return report, nil
}

func (s *DashboardService) portfolioSeries(ctx context.Context, portfolioID int64) (model.PerformanceSeries, error) {
	portfolio, err := s.repo.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return model.PerformanceSeries{}, err
	}

	points, err := s.repo.GetPortfolioSnapshots(ctx, portfolioID)
	if err != nil {
		return model.PerformanceSeries{}, err
	}

	return model.PerformanceSeries{
		PortfolioID: portfolio.PortfolioID,
		Name:        portfolio.Name,
		Points:      points,
	}, nil
}
