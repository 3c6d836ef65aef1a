package egxApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/config"
	"github.com/mfarghaly/egx_dashboard_api/internal/externalApi"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/egxModel"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

type EgxApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *EgxApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.EgxApi.Url)
	return &EgxApi{client: client}
}

// GetQuotes fetches the full EGX equities board in one request.
func (a *EgxApi) GetQuotes(ctx context.Context) ([]egxModel.StockQuote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "EgxApi.GetQuotes"
	url := "/v1/egx/equities/quotes"

	slog.Debug("GetQuotes start", slog.String("rqID", rqID), slog.String("op", op))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		slog.Error("error while dialing EgxApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	raw := egxModel.RawQuotesResponse{}
	err = json.Unmarshal(resp.Body(), &raw)
	if err != nil {
		slog.Error("can't unmarshal response into egxModel.RawQuotesResponse", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	quotes, err := parseRawQuotes(raw)
	if err != nil {
		slog.Error("can't parse raw quotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	slog.Debug("GetQuotes completed", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(quotes)))

	return quotes, nil
}

// GetQuote fetches a single symbol.
func (a *EgxApi) GetQuote(ctx context.Context, symbol string) (egxModel.StockQuote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "EgxApi.GetQuote"
	url := "/v1/egx/equities/quotes"

	slog.Debug("GetQuote start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", symbol).
		Get(url)
	if err != nil {
		slog.Error("error while dialing EgxApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return egxModel.StockQuote{}, err
	}

	raw := egxModel.RawQuotesResponse{}
	err = json.Unmarshal(resp.Body(), &raw)
	if err != nil {
		slog.Error("can't unmarshal response into egxModel.RawQuotesResponse", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return egxModel.StockQuote{}, err
	}

	if len(raw.Quotes) == 0 {
		return egxModel.StockQuote{}, externalApi.ErrNotFound
	}

	quotes, err := parseRawQuotes(raw)
	if err != nil {
		slog.Error("can't parse raw quotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return egxModel.StockQuote{}, err
	}

	if len(quotes) != 1 {
		return egxModel.StockQuote{}, fmt.Errorf("unexpected quotes count %d, expected exactly 1", len(quotes))
	}

	slog.Debug("GetQuote completed", slog.String("rqID", rqID), slog.String("op", op))

	return quotes[0], nil
}

func parseRawQuotes(raw egxModel.RawQuotesResponse) ([]egxModel.StockQuote, error) {
	quotes := make([]egxModel.StockQuote, 0, len(raw.Quotes))

	for _, q := range raw.Quotes {
		if q.Symbol == "" {
			return nil, fmt.Errorf("quote without symbol: %+v", q)
		}

		quote := egxModel.StockQuote{
			Symbol: q.Symbol,
			Name:   q.Name,
			Sector: q.Sector,
			Active: q.Status == "A",
		}

		if q.LastPrice != nil {
			price := decimal.NewFromFloat(*q.LastPrice)
			if price.IsNegative() {
				return nil, fmt.Errorf("negative price for %s: %f", q.Symbol, *q.LastPrice)
			}
			quote.Price = price
		}

		quotes = append(quotes, quote)
	}

	return quotes, nil
}
