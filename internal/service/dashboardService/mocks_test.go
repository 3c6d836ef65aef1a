package dashboardService

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/data/cache"
	"github.com/mfarghaly/egx_dashboard_api/data/repository"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/egxModel"
)

// Function-field mocks: a nil field means "not expected in this test" and
// returns the zero value (or repository.ErrNotFound where a lookup makes
// no sense without data).

type repoMock struct {
	upsertStocks     func(ctx context.Context, stocks []model.Stock) error
	getStocks        func(ctx context.Context) ([]model.Stock, error)
	getStocksByIDs   func(ctx context.Context, stockIDs []int64) (map[int64]model.Stock, error)
	getStockBySymbol func(ctx context.Context, symbol string) (model.Stock, error)

	createStrategy func(ctx context.Context, draft model.StrategyDraft) (int64, error)
	getStrategies  func(ctx context.Context) ([]model.Strategy, error)
	getStrategy    func(ctx context.Context, strategyID int64) (model.Strategy, error)
	updateStrategy func(ctx context.Context, strategyID int64, draft model.StrategyDraft) error
	deleteStrategy func(ctx context.Context, strategyID int64) error

	getHoldings    func(ctx context.Context, strategyID int64) ([]model.Holding, error)
	applyRebalance func(ctx context.Context, app repository.RebalanceApplication) error

	insertRebalanceRecord     func(ctx context.Context, strategyID int64, actions []model.RebalanceAction) (int64, error)
	getRebalanceRecords       func(ctx context.Context, strategyID int64) ([]model.RebalanceRecord, error)
	getRebalanceRecord        func(ctx context.Context, recordID int64) (model.RebalanceRecord, error)
	getLatestPendingRebalance func(ctx context.Context, strategyID int64) (model.RebalanceRecord, error)

	createPortfolio func(ctx context.Context, name string, stockIDs []int64) (int64, error)
	getPortfolios   func(ctx context.Context) ([]model.Portfolio, error)
	getPortfolio    func(ctx context.Context, portfolioID int64) (model.Portfolio, error)
	updatePortfolio func(ctx context.Context, portfolioID int64, name string, stockIDs []int64) error
	deletePortfolio func(ctx context.Context, portfolioID int64) error

	createWatchlist func(ctx context.Context, name string, stockIDs []int64) (int64, error)
	getWatchlists   func(ctx context.Context) ([]model.Watchlist, error)
	getWatchlist    func(ctx context.Context, watchlistID int64) (model.Watchlist, error)
	updateWatchlist func(ctx context.Context, watchlistID int64, name string, stockIDs []int64) error
	deleteWatchlist func(ctx context.Context, watchlistID int64) error

	insertPortfolioSnapshot func(ctx context.Context, portfolioID int64, value decimal.Decimal, date time.Time) error
	insertStrategySnapshot  func(ctx context.Context, strategyID int64, value decimal.Decimal, date time.Time) error
	getPortfolioSnapshots   func(ctx context.Context, portfolioID int64) ([]model.PerformancePoint, error)
	getStrategySnapshots    func(ctx context.Context, strategyID int64) ([]model.PerformancePoint, error)
}

func (m *repoMock) UpsertStocks(ctx context.Context, stocks []model.Stock) error {
	if m.upsertStocks == nil {
		return nil
	}
	return m.upsertStocks(ctx, stocks)
}

func (m *repoMock) GetStocks(ctx context.Context) ([]model.Stock, error) {
	if m.getStocks == nil {
		return nil, nil
	}
	return m.getStocks(ctx)
}

func (m *repoMock) GetStocksByIDs(ctx context.Context, stockIDs []int64) (map[int64]model.Stock, error) {
	if m.getStocksByIDs == nil {
		return map[int64]model.Stock{}, nil
	}
	return m.getStocksByIDs(ctx, stockIDs)
}

func (m *repoMock) GetStockBySymbol(ctx context.Context, symbol string) (model.Stock, error) {
	if m.getStockBySymbol == nil {
		return model.Stock{}, repository.ErrNotFound
	}
	return m.getStockBySymbol(ctx, symbol)
}

func (m *repoMock) CreateStrategy(ctx context.Context, draft model.StrategyDraft) (int64, error) {
	if m.createStrategy == nil {
		return 1, nil
	}
	return m.createStrategy(ctx, draft)
}

func (m *repoMock) GetStrategies(ctx context.Context) ([]model.Strategy, error) {
	if m.getStrategies == nil {
		return nil, nil
	}
	return m.getStrategies(ctx)
}

func (m *repoMock) GetStrategy(ctx context.Context, strategyID int64) (model.Strategy, error) {
	if m.getStrategy == nil {
		return model.Strategy{}, repository.ErrNotFound
	}
	return m.getStrategy(ctx, strategyID)
}

func (m *repoMock) UpdateStrategy(ctx context.Context, strategyID int64, draft model.StrategyDraft) error {
	if m.updateStrategy == nil {
		return nil
	}
	return m.updateStrategy(ctx, strategyID, draft)
}

func (m *repoMock) DeleteStrategy(ctx context.Context, strategyID int64) error {
	if m.deleteStrategy == nil {
		return nil
	}
	return m.deleteStrategy(ctx, strategyID)
}

func (m *repoMock) GetHoldings(ctx context.Context, strategyID int64) ([]model.Holding, error) {
	if m.getHoldings == nil {
		return nil, nil
	}
	return m.getHoldings(ctx, strategyID)
}

func (m *repoMock) ApplyRebalance(ctx context.Context, app repository.RebalanceApplication) error {
	if m.applyRebalance == nil {
		return nil
	}
	return m.applyRebalance(ctx, app)
}

func (m *repoMock) InsertRebalanceRecord(ctx context.Context, strategyID int64, actions []model.RebalanceAction) (int64, error) {
	if m.insertRebalanceRecord == nil {
		return 1, nil
	}
	return m.insertRebalanceRecord(ctx, strategyID, actions)
}

func (m *repoMock) GetRebalanceRecords(ctx context.Context, strategyID int64) ([]model.RebalanceRecord, error) {
	if m.getRebalanceRecords == nil {
		return nil, nil
	}
	return m.getRebalanceRecords(ctx, strategyID)
}

func (m *repoMock) GetRebalanceRecord(ctx context.Context, recordID int64) (model.RebalanceRecord, error) {
	if m.getRebalanceRecord == nil {
		return model.RebalanceRecord{}, repository.ErrNotFound
	}
	return m.getRebalanceRecord(ctx, recordID)
}

func (m *repoMock) GetLatestPendingRebalance(ctx context.Context, strategyID int64) (model.RebalanceRecord, error) {
	if m.getLatestPendingRebalance == nil {
		return model.RebalanceRecord{}, repository.ErrNotFound
	}
	return m.getLatestPendingRebalance(ctx, strategyID)
}

func (m *repoMock) CreatePortfolio(ctx context.Context, name string, stockIDs []int64) (int64, error) {
	if m.createPortfolio == nil {
		return 1, nil
	}
	return m.createPortfolio(ctx, name, stockIDs)
}

func (m *repoMock) GetPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	if m.getPortfolios == nil {
		return nil, nil
	}
	return m.getPortfolios(ctx)
}

func (m *repoMock) GetPortfolio(ctx context.Context, portfolioID int64) (model.Portfolio, error) {
	if m.getPortfolio == nil {
		return model.Portfolio{}, repository.ErrNotFound
	}
	return m.getPortfolio(ctx, portfolioID)
}

func (m *repoMock) UpdatePortfolio(ctx context.Context, portfolioID int64, name string, stockIDs []int64) error {
	if m.updatePortfolio == nil {
		return nil
	}
	return m.updatePortfolio(ctx, portfolioID, name, stockIDs)
}

func (m *repoMock) DeletePortfolio(ctx context.Context, portfolioID int64) error {
	if m.deletePortfolio == nil {
		return nil
	}
	return m.deletePortfolio(ctx, portfolioID)
}

func (m *repoMock) CreateWatchlist(ctx context.Context, name string, stockIDs []int64) (int64, error) {
	if m.createWatchlist == nil {
		return 1, nil
	}
	return m.createWatchlist(ctx, name, stockIDs)
}

func (m *repoMock) GetWatchlists(ctx context.Context) ([]model.Watchlist, error) {
	if m.getWatchlists == nil {
		return nil, nil
	}
	return m.getWatchlists(ctx)
}

func (m *repoMock) GetWatchlist(ctx context.Context, watchlistID int64) (model.Watchlist, error) {
	if m.getWatchlist == nil {
		return model.Watchlist{}, repository.ErrNotFound
	}
	return m.getWatchlist(ctx, watchlistID)
}

func (m *repoMock) UpdateWatchlist(ctx context.Context, watchlistID int64, name string, stockIDs []int64) error {
	if m.updateWatchlist == nil {
		return nil
	}
	return m.updateWatchlist(ctx, watchlistID, name, stockIDs)
}

func (m *repoMock) DeleteWatchlist(ctx context.Context, watchlistID int64) error {
	if m.deleteWatchlist == nil {
		return nil
	}
	return m.deleteWatchlist(ctx, watchlistID)
}

func (m *repoMock) InsertPortfolioSnapshot(ctx context.Context, portfolioID int64, value decimal.Decimal, date time.Time) error {
	if m.insertPortfolioSnapshot == nil {
		return nil
	}
	return m.insertPortfolioSnapshot(ctx, portfolioID, value, date)
}

func (m *repoMock) InsertStrategySnapshot(ctx context.Context, strategyID int64, value decimal.Decimal, date time.Time) error {
	if m.insertStrategySnapshot == nil {
		return nil
	}
	return m.insertStrategySnapshot(ctx, strategyID, value, date)
}

func (m *repoMock) GetPortfolioSnapshots(ctx context.Context, portfolioID int64) ([]model.PerformancePoint, error) {
	if m.getPortfolioSnapshots == nil {
		return nil, nil
	}
	return m.getPortfolioSnapshots(ctx, portfolioID)
}

func (m *repoMock) GetStrategySnapshots(ctx context.Context, strategyID int64) ([]model.PerformancePoint, error) {
	if m.getStrategySnapshots == nil {
		return nil, nil
	}
	return m.getStrategySnapshots(ctx, strategyID)
}

type cacheMock struct {
	setQuotes          func(ctx context.Context, stocks []model.Stock) error
	getQuote           func(ctx context.Context, stockID int64) (model.Stock, error)
	getQuotes          func(ctx context.Context, stockIDs []int64) (map[int64]model.Stock, error)
	setStrategySummary func(ctx context.Context, strategyID int64, summary model.StrategySummary) error
	getStrategySummary func(ctx context.Context, strategyID int64) (model.StrategySummary, error)
	flushStrategyCache func(ctx context.Context, strategyID int64) error
}

func (m *cacheMock) SetQuotes(ctx context.Context, stocks []model.Stock) error {
	if m.setQuotes == nil {
		return nil
	}
	return m.setQuotes(ctx, stocks)
}

func (m *cacheMock) GetQuote(ctx context.Context, stockID int64) (model.Stock, error) {
	if m.getQuote == nil {
		return model.Stock{}, cache.ErrCacheMiss
	}
	return m.getQuote(ctx, stockID)
}

func (m *cacheMock) GetQuotes(ctx context.Context, stockIDs []int64) (map[int64]model.Stock, error) {
	if m.getQuotes == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.getQuotes(ctx, stockIDs)
}

func (m *cacheMock) SetStrategySummary(ctx context.Context, strategyID int64, summary model.StrategySummary) error {
	if m.setStrategySummary == nil {
		return nil
	}
	return m.setStrategySummary(ctx, strategyID, summary)
}

func (m *cacheMock) GetStrategySummary(ctx context.Context, strategyID int64) (model.StrategySummary, error) {
	if m.getStrategySummary == nil {
		return model.StrategySummary{}, cache.ErrCacheMiss
	}
	return m.getStrategySummary(ctx, strategyID)
}

func (m *cacheMock) FlushStrategyCache(ctx context.Context, strategyID int64) error {
	if m.flushStrategyCache == nil {
		return nil
	}
	return m.flushStrategyCache(ctx, strategyID)
}

type egxApiMock struct {
	getQuotes func(ctx context.Context) ([]egxModel.StockQuote, error)
	getQuote  func(ctx context.Context, symbol string) (egxModel.StockQuote, error)
}

func (m *egxApiMock) GetQuotes(ctx context.Context) ([]egxModel.StockQuote, error) {
	if m.getQuotes == nil {
		return nil, nil
	}
	return m.getQuotes(ctx)
}

func (m *egxApiMock) GetQuote(ctx context.Context, symbol string) (egxModel.StockQuote, error) {
	if m.getQuote == nil {
		return egxModel.StockQuote{}, nil
	}
	return m.getQuote(ctx, symbol)
}

type lockMock struct {
	acquire func(ctx context.Context, strategyID int64) (string, error)
	release func(ctx context.Context, strategyID int64, token string) error
}

func (m *lockMock) Acquire(ctx context.Context, strategyID int64) (string, error) {
	if m.acquire == nil {
		return "token", nil
	}
	return m.acquire(ctx, strategyID)
}

func (m *lockMock) Release(ctx context.Context, strategyID int64, token string) error {
	if m.release == nil {
		return nil
	}
	return m.release(ctx, strategyID, token)
}

type reportGenMock struct {
	generate func(ctx context.Context, report model.StrategyReport) ([]byte, string, error)
}

func (m *reportGenMock) Generate(ctx context.Context, report model.StrategyReport) ([]byte, string, error) {
	if m.generate == nil {
		return []byte("xlsx"), ".xlsx", nil
	}
	return m.generate(ctx, report)
}

type cloudStorageMock struct {
	uploadFile     func(ctx context.Context, reader io.Reader, filename string) (string, error)
	deleteOldFiles func(ctx context.Context) error
}

func (m *cloudStorageMock) UploadFile(ctx context.Context, reader io.Reader, filename string) (string, error) {
	if m.uploadFile == nil {
		return "https://example.com/file", nil
	}
	return m.uploadFile(ctx, reader, filename)
}

func (m *cloudStorageMock) DeleteOldFiles(ctx context.Context) error {
	if m.deleteOldFiles == nil {
		return nil
	}
	return m.deleteOldFiles(ctx)
}
