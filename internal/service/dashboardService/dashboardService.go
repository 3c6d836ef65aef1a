package dashboardService

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/config"
	"github.com/mfarghaly/egx_dashboard_api/data/repository"
	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/egxModel"
	"github.com/mfarghaly/egx_dashboard_api/internal/service"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

type EgxApi interface {
	GetQuotes(ctx context.Context) ([]egxModel.StockQuote, error)
	GetQuote(ctx context.Context, symbol string) (egxModel.StockQuote, error)
}

type Cache interface {
	SetQuotes(ctx context.Context, stocks []model.Stock) error
	GetQuote(ctx context.Context, stockID int64) (model.Stock, error)
	GetQuotes(ctx context.Context, stockIDs []int64) (map[int64]model.Stock, error)
	SetStrategySummary(ctx context.Context, strategyID int64, summary model.StrategySummary) error
	GetStrategySummary(ctx context.Context, strategyID int64) (model.StrategySummary, error)
	FlushStrategyCache(ctx context.Context, strategyID int64) error
}

type Repository interface {
	UpsertStocks(ctx context.Context, stocks []model.Stock) error
	GetStocks(ctx context.Context) ([]model.Stock, error)
	GetStocksByIDs(ctx context.Context, stockIDs []int64) (map[int64]model.Stock, error)
	GetStockBySymbol(ctx context.Context, symbol string) (model.Stock, error)

	CreateStrategy(ctx context.Context, draft model.StrategyDraft) (strategyID int64, err error)
	GetStrategies(ctx context.Context) ([]model.Strategy, error)
	GetStrategy(ctx context.Context, strategyID int64) (model.Strategy, error)
	UpdateStrategy(ctx context.Context, strategyID int64, draft model.StrategyDraft) error
	DeleteStrategy(ctx context.Context, strategyID int64) error

	GetHoldings(ctx context.Context, strategyID int64) ([]model.Holding, error)
	ApplyRebalance(ctx context.Context, app repository.RebalanceApplication) error

	InsertRebalanceRecord(ctx context.Context, strategyID int64, actions []model.RebalanceAction) (recordID int64, err error)
	GetRebalanceRecords(ctx context.Context, strategyID int64) ([]model.RebalanceRecord, error)
	GetRebalanceRecord(ctx context.Context, recordID int64) (model.RebalanceRecord, error)
	GetLatestPendingRebalance(ctx context.Context, strategyID int64) (model.RebalanceRecord, error)

	CreatePortfolio(ctx context.Context, name string, stockIDs []int64) (portfolioID int64, err error)
	GetPortfolios(ctx context.Context) ([]model.Portfolio, error)
	GetPortfolio(ctx context.Context, portfolioID int64) (model.Portfolio, error)
	UpdatePortfolio(ctx context.Context, portfolioID int64, name string, stockIDs []int64) error
	DeletePortfolio(ctx context.Context, portfolioID int64) error

	CreateWatchlist(ctx context.Context, name string, stockIDs []int64) (watchlistID int64, err error)
	GetWatchlists(ctx context.Context) ([]model.Watchlist, error)
	GetWatchlist(ctx context.Context, watchlistID int64) (model.Watchlist, error)
	UpdateWatchlist(ctx context.Context, watchlistID int64, name string, stockIDs []int64) error
	DeleteWatchlist(ctx context.Context, watchlistID int64) error

	InsertPortfolioSnapshot(ctx context.Context, portfolioID int64, value decimal.Decimal, date time.Time) error
	InsertStrategySnapshot(ctx context.Context, strategyID int64, value decimal.Decimal, date time.Time) error
	GetPortfolioSnapshots(ctx context.Context, portfolioID int64) ([]model.PerformancePoint, error)
	GetStrategySnapshots(ctx context.Context, strategyID int64) ([]model.PerformancePoint, error)
}

type RebalanceLock interface {
	Acquire(ctx context.Context, strategyID int64) (token string, err error)
	Release(ctx context.Context, strategyID int64, token string) error
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.StrategyReport) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) error
}

type DashboardService struct {
	repo         Repository
	cache        Cache
	egxApi       EgxApi
	lock         RebalanceLock
	reportGen    ReportGenerator
	cloudStorage CloudStorage
	cfg          *config.Config
}

// New wires the service. cloudStorage may be nil when uploads are disabled.
func New(
	cfg *config.Config,
	repo Repository,
	cache Cache,
	egxApi EgxApi,
	lock RebalanceLock,
	reportGen ReportGenerator,
	cloudStorage CloudStorage,
) *DashboardService {
	return &DashboardService{
		repo:         repo,
		cache:        cache,
		egxApi:       egxApi,
		lock:         lock,
		reportGen:    reportGen,
		cloudStorage: cloudStorage,
		cfg:          cfg,
	}
}

// getQuotedStocks serves prices cache-first and falls back to the stocks
// table, which the quote refresh job keeps current.
func (s *DashboardService) getQuotedStocks(ctx context.Context, stockIDs []int64) (map[int64]model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.getQuotedStocks"

	if len(stockIDs) == 0 {
		return map[int64]model.Stock{}, nil
	}

	stocks, err := s.cache.GetQuotes(ctx, stockIDs)
	if err == nil {
		return stocks, nil
	}

	slog.Debug("quotes not served from cache, falling back to repo", slog.String("rqID", rqID), slog.String("op", op), slog.String("reason", err.Error()))

	stocks, err = s.repo.GetStocksByIDs(ctx, stockIDs)
	if err != nil {
		slog.Error("got error from repo.GetStocksByIDs", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return stocks, nil
}

// buildSummary prices the strategy against current holdings. Current value
// includes uninvested cash, profit is measured against the funds put in.
func (s *DashboardService) buildSummary(ctx context.Context, strategy model.Strategy) (model.StrategySummary, error) {
	hs, err := s.repo.GetHoldings(ctx, strategy.StrategyID)
	if err != nil {
		return model.StrategySummary{}, err
	}

	positions := holdings.Aggregate(hs)
	currentValue := holdings.TotalValue(positions).Add(strategy.RemainingCash)
	profitLoss := currentValue.Sub(strategy.TotalFunds)

	profitLossPct := decimal.Zero
	if strategy.TotalFunds.IsPositive() {
		profitLossPct = profitLoss.Div(strategy.TotalFunds).Mul(decimal.NewFromInt(100))
	}

	return model.StrategySummary{
		Strategy:      strategy,
		CurrentValue:  currentValue,
		ProfitLoss:    profitLoss,
		ProfitLossPct: profitLossPct,
	}, nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return service.ErrNotFound
	}
	return err
}
