package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mfarghaly/egx_dashboard_api/internal/converter/dbConverter"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/dbModel"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

func (r *Postgres) CreatePortfolio(ctx context.Context, name string, stockIDs []int64) (portfolioID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.CreatePortfolio"
	query := `INSERT INTO portfolios(name, stock_ids) VALUES($1, $2) RETURNING portfolio_id`

	slog.Debug("CreatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	defer func() {
		if err != nil {
			slog.Error("CreatePortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreatePortfolio completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	ids, err := json.Marshal(stockIDs)
	if err != nil {
		return 0, fmt.Errorf("marshal stock ids: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, name, ids).Scan(&portfolioID)
	if err != nil {
		return 0, err
	}

	return portfolioID, nil
}

func (r *Postgres) GetPortfolios(ctx context.Context) (portfolios []model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetPortfolios"
	query := `
		SELECT portfolio_id, name, stock_ids, created_at
		FROM portfolios
		ORDER BY portfolio_id
		`

	slog.Debug("GetPortfolios start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolios failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolios completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbPortfolio dbModel.Portfolio
		err = rows.StructScan(&dbPortfolio)
		if err != nil {
			return nil, err
		}

		portfolio, err := dbConverter.ConvertPortfolio(dbPortfolio)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, portfolio)
	}

	return portfolios, nil
}

func (r *Postgres) GetPortfolio(ctx context.Context, portfolioID int64) (portfolio model.Portfolio, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetPortfolio"
	query := `
		SELECT portfolio_id, name, stock_ids, created_at
		FROM portfolios
		WHERE portfolio_id = $1
		`

	slog.Debug("GetPortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolio completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbPortfolio := dbModel.Portfolio{}
	err = r.db.QueryRowxContext(ctx, query, portfolioID).StructScan(&dbPortfolio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Portfolio{}, ErrNotFound
		}
		return model.Portfolio{}, err
	}

	return dbConverter.ConvertPortfolio(dbPortfolio)
}

func (r *Postgres) UpdatePortfolio(ctx context.Context, portfolioID int64, name string, stockIDs []int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdatePortfolio"
	query := `UPDATE portfolios SET name = $1, stock_ids = $2 WHERE portfolio_id = $3`

	slog.Debug("UpdatePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("UpdatePortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdatePortfolio completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	ids, err := json.Marshal(stockIDs)
	if err != nil {
		return fmt.Errorf("marshal stock ids: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, name, ids, portfolioID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *Postgres) DeletePortfolio(ctx context.Context, portfolioID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeletePortfolio"
	query := `DELETE FROM portfolios WHERE portfolio_id = $1`

	slog.Debug("DeletePortfolio start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("DeletePortfolio failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeletePortfolio completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := r.db.ExecContext(ctx, query, portfolioID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
