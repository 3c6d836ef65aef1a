package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfarghaly/egx_dashboard_api/config"
	"github.com/mfarghaly/egx_dashboard_api/internal/allocation"
	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/service"
	"github.com/mfarghaly/egx_dashboard_api/internal/service/dashboardService"
)

// serviceStub returns err from every operation when set, canned values
// otherwise.
type serviceStub struct {
	err     error
	summary model.StrategySummary
	record  model.RebalanceRecord
	plan    model.RebalancePlan
}

func (s *serviceStub) CreateStrategy(context.Context, model.StrategyDraft) (int64, error) {
	return 1, s.err
}
func (s *serviceStub) GetStrategies(context.Context) ([]model.StrategySummary, error) {
	return []model.StrategySummary{s.summary}, s.err
}
func (s *serviceStub) GetStrategy(context.Context, int64) (model.StrategySummary, error) {
	return s.summary, s.err
}
func (s *serviceStub) UpdateStrategy(context.Context, int64, model.StrategyDraft) error {
	return s.err
}
func (s *serviceStub) DeleteStrategy(context.Context, int64) error { return s.err }
func (s *serviceStub) GetStrategyHoldings(context.Context, int64) ([]holdings.Position, error) {
	return nil, s.err
}
func (s *serviceStub) GetStrategyPerformance(context.Context, int64) (model.PerformanceSeries, error) {
	return model.PerformanceSeries{}, s.err
}
func (s *serviceStub) CalculateRebalance(context.Context, int64) (model.RebalancePlan, error) {
	return s.plan, s.err
}
func (s *serviceStub) ExecuteRebalance(context.Context, int64) (model.RebalanceRecord, error) {
	return s.record, s.err
}
func (s *serviceStub) GetRebalanceHistory(context.Context, int64) ([]model.RebalanceRecord, error) {
	return nil, s.err
}
func (s *serviceStub) UndoRebalance(context.Context, int64) error { return s.err }
func (s *serviceStub) GenerateStrategyReport(context.Context, int64) (dashboardService.StrategyReportFile, error) {
	return dashboardService.StrategyReportFile{Filename: "strategy_1.xlsx", Content: []byte("xlsx")}, s.err
}
func (s *serviceStub) CreatePortfolio(context.Context, string, []int64) (int64, error) {
	return 1, s.err
}
func (s *serviceStub) GetPortfolios(context.Context) ([]model.Portfolio, error) { return nil, s.err }
func (s *serviceStub) GetPortfolio(context.Context, int64) (model.Portfolio, error) {
	return model.Portfolio{}, s.err
}
func (s *serviceStub) UpdatePortfolio(context.Context, int64, string, []int64) error { return s.err }
func (s *serviceStub) DeletePortfolio(context.Context, int64) error                  { return s.err }
func (s *serviceStub) GetPortfolioPerformance(context.Context, int64) (model.PerformanceSeries, error) {
	return model.PerformanceSeries{}, s.err
}
func (s *serviceStub) ComparePortfolios(context.Context, []int64) (model.ComparisonReport, error) {
	return model.ComparisonReport{}, s.err
}
func (s *serviceStub) CreateWatchlist(context.Context, string, []int64) (int64, error) {
	return 1, s.err
}
func (s *serviceStub) GetWatchlists(context.Context) ([]model.Watchlist, error) { return nil, s.err }
func (s *serviceStub) GetWatchlist(context.Context, int64) (model.Watchlist, []model.Stock, error) {
	return model.Watchlist{}, nil, s.err
}
func (s *serviceStub) UpdateWatchlist(context.Context, int64, string, []int64) error { return s.err }
func (s *serviceStub) DeleteWatchlist(context.Context, int64) error                  { return s.err }
func (s *serviceStub) GetStocks(context.Context) ([]model.Stock, error)              { return nil, s.err }
func (s *serviceStub) GetStockBySymbol(context.Context, string) (model.Stock, error) {
	return model.Stock{}, s.err
}
func (s *serviceStub) GetStockPrices(context.Context, []int64) ([]model.Stock, error) {
	return nil, s.err
}

func newTestRouter(stub *serviceStub) http.Handler {
	cfg := &config.Config{}
	cfg.HTTP.RequestTimeout = 5 * time.Second
	return NewRouter(cfg, NewController(stub))
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestRouter(&serviceStub{}), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestGetStrategyNotFoundMapsTo404(t *testing.T) {
	stub := &serviceStub{err: service.ErrNotFound}
	rec := doRequest(t, newTestRouter(stub), http.MethodGet, "/api/strategies/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestCreateStrategyValidationErrorMapsTo400(t *testing.T) {
	stub := &serviceStub{err: &allocation.PortfolioMismatchError{Sum: decimal.RequireFromString("99.98")}}
	rec := doRequest(t, newTestRouter(stub), http.MethodPost, "/api/strategies", `{"name":"x","total_funds":"1000"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "99.98")
}

func TestCreateStrategyMalformedBody(t *testing.T) {
	rec := doRequest(t, newTestRouter(&serviceStub{}), http.MethodPost, "/api/strategies", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteRebalanceConflictMapsTo409(t *testing.T) {
	stub := &serviceStub{err: service.ErrRebalanceInProgress}
	rec := doRequest(t, newTestRouter(stub), http.MethodPost, "/api/strategies/1/rebalance/execute", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUndoRebalanceGuardMapsTo400(t *testing.T) {
	stub := &serviceStub{err: service.ErrRebalanceNotExecuted}
	rec := doRequest(t, newTestRouter(stub), http.MethodPost, "/api/rebalance/7/undo", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownErrorMapsTo500(t *testing.T) {
	stub := &serviceStub{err: assert.AnError}
	rec := doRequest(t, newTestRouter(stub), http.MethodGet, "/api/strategies/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal error")
}

func TestInvalidPathID(t *testing.T) {
	rec := doRequest(t, newTestRouter(&serviceStub{}), http.MethodGet, "/api/strategies/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareRequiresTwoIDs(t *testing.T) {
	rec := doRequest(t, newTestRouter(&serviceStub{}), http.MethodGet, "/api/portfolios/compare?ids=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, newTestRouter(&serviceStub{}), http.MethodGet, "/api/portfolios/compare?ids=1,2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetStrategyOK(t *testing.T) {
	stub := &serviceStub{summary: model.StrategySummary{
		Strategy:     model.Strategy{StrategyID: 42, Name: "core"},
		CurrentValue: decimal.RequireFromString("10000"),
	}}
	rec := doRequest(t, newTestRouter(stub), http.MethodGet, "/api/strategies/42", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"strategy_id":42`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetStrategyReportSetsAttachmentHeaders(t *testing.T) {
	rec := doRequest(t, newTestRouter(&serviceStub{}), http.MethodGet, "/api/strategies/1/report", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "strategy_1.xlsx")
	assert.Equal(t, "xlsx", rec.Body.String())
}
