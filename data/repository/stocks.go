package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mfarghaly/egx_dashboard_api/internal/converter/dbConverter"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/dbModel"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

func (r *Postgres) UpsertStocks(ctx context.Context, stocks []model.Stock) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpsertStocks"

	slog.Debug("UpsertStocks start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(stocks)))
	defer func() {
		if err != nil {
			slog.Error("UpsertStocks failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertStocks completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	if len(stocks) == 0 {
		return nil
	}

	sb := strings.Builder{}
	args := make([]any, 0, len(stocks)*4)

	sb.WriteString(`INSERT INTO stocks (symbol, name, sector, current_price) VALUES `)

	for i, stock := range stocks {
		args = append(args, stock.Symbol, stock.Name, stock.Sector, stock.CurrentPrice)

		start := i*4 + 1
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d)", start, start+1, start+2, start+3))

		if i < len(stocks)-1 {
			sb.WriteString(",")
		}
	}

	sb.WriteString(`
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			current_price = EXCLUDED.current_price,
			updated_at = now();
	`)

	_, err = r.db.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *Postgres) GetStocks(ctx context.Context) (stocks []model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStocks"
	query := `
		SELECT stock_id, symbol, name, sector, current_price, updated_at
		FROM stocks
		ORDER BY symbol
		`

	slog.Debug("GetStocks start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetStocks failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStocks completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var stock dbModel.Stock
		err = rows.StructScan(&stock)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, dbConverter.ConvertStock(stock))
	}

	return stocks, nil
}

func (r *Postgres) GetStocksByIDs(ctx context.Context, stockIDs []int64) (stocks map[int64]model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStocksByIDs"
	query := `
		SELECT stock_id, symbol, name, sector, current_price, updated_at
		FROM stocks
		WHERE stock_id = ANY($1)
		`

	slog.Debug("GetStocksByIDs start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(stockIDs)))
	defer func() {
		if err != nil {
			slog.Error("GetStocksByIDs failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStocksByIDs completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query, stockIDs)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	stocks = make(map[int64]model.Stock, len(stockIDs))
	for rows.Next() {
		var stock dbModel.Stock
		err = rows.StructScan(&stock)
		if err != nil {
			return nil, err
		}
		stocks[stock.StockID] = dbConverter.ConvertStock(stock)
	}

	return stocks, nil
}

func (r *Postgres) GetStockBySymbol(ctx context.Context, symbol string) (stock model.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStockBySymbol"
	query := `
		SELECT stock_id, symbol, name, sector, current_price, updated_at
		FROM stocks
		WHERE symbol = $1
		`

	slog.Debug("GetStockBySymbol start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		if err != nil {
			slog.Error("GetStockBySymbol failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStockBySymbol completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbStock := dbModel.Stock{}
	err = r.db.QueryRowxContext(ctx, query, symbol).StructScan(&dbStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Stock{}, ErrNotFound
		}
		return model.Stock{}, err
	}

	return dbConverter.ConvertStock(dbStock), nil
}
