package rest

import (
	"context"

	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/service/dashboardService"
)

type DashboardService interface {
	CreateStrategy(ctx context.Context, draft model.StrategyDraft) (strategyID int64, err error)
	GetStrategies(ctx context.Context) ([]model.StrategySummary, error)
	GetStrategy(ctx context.Context, strategyID int64) (model.StrategySummary, error)
	UpdateStrategy(ctx context.Context, strategyID int64, draft model.StrategyDraft) error
	DeleteStrategy(ctx context.Context, strategyID int64) error
	GetStrategyHoldings(ctx context.Context, strategyID int64) ([]holdings.Position, error)
	GetStrategyPerformance(ctx context.Context, strategyID int64) (model.PerformanceSeries, error)

	CalculateRebalance(ctx context.Context, strategyID int64) (model.RebalancePlan, error)
	ExecuteRebalance(ctx context.Context, strategyID int64) (model.RebalanceRecord, error)
	GetRebalanceHistory(ctx context.Context, strategyID int64) ([]model.RebalanceRecord, error)
	UndoRebalance(ctx context.Context, recordID int64) error

	GenerateStrategyReport(ctx context.Context, strategyID int64) (dashboardService.StrategyReportFile, error)

	CreatePortfolio(ctx context.Context, name string, stockIDs []int64) (portfolioID int64, err error)
	GetPortfolios(ctx context.Context) ([]model.Portfolio, error)
	GetPortfolio(ctx context.Context, portfolioID int64) (model.Portfolio, error)
	UpdatePortfolio(ctx context.Context, portfolioID int64, name string, stockIDs []int64) error
	DeletePortfolio(ctx context.Context, portfolioID int64) error
	GetPortfolioPerformance(ctx context.Context, portfolioID int64) (model.PerformanceSeries, error)
	ComparePortfolios(ctx context.Context, portfolioIDs []int64) (model.ComparisonReport, error)

	CreateWatchlist(ctx context.Context, name string, stockIDs []int64) (watchlistID int64, err error)
	GetWatchlists(ctx context.Context) ([]model.Watchlist, error)
	GetWatchlist(ctx context.Context, watchlistID int64) (model.Watchlist, []model.Stock, error)
	UpdateWatchlist(ctx context.Context, watchlistID int64, name string, stockIDs []int64) error
	DeleteWatchlist(ctx context.Context, watchlistID int64) error

	GetStocks(ctx context.Context) ([]model.Stock, error)
	GetStockBySymbol(ctx context.Context, symbol string) (model.Stock, error)
	GetStockPrices(ctx context.Context, stockIDs []int64) ([]model.Stock, error)
}

type Controller struct {
	dashboardService DashboardService
}

func NewController(dashboardService DashboardService) *Controller {
	return &Controller{dashboardService: dashboardService}
}
