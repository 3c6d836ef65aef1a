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

func (r *Postgres) CreateWatchlist(ctx context.Context, name string, stockIDs []int64) (watchlistID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.CreateWatchlist"
	query := `INSERT INTO watchlists(name, stock_ids) VALUES($1, $2) RETURNING watchlist_id`

	slog.Debug("CreateWatchlist start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", name))
	defer func() {
		if err != nil {
			slog.Error("CreateWatchlist failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateWatchlist completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	ids, err := json.Marshal(stockIDs)
	if err != nil {
		return 0, fmt.Errorf("marshal stock ids: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, name, ids).Scan(&watchlistID)
	if err != nil {
		return 0, err
	}

	return watchlistID, nil
}

func (r *Postgres) GetWatchlists(ctx context.Context) (watchlists []model.Watchlist, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetWatchlists"
	query := `
		SELECT watchlist_id, name, stock_ids, created_at
		FROM watchlists
		ORDER BY watchlist_id
		`

	slog.Debug("GetWatchlists start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		if err != nil {
			slog.Error("GetWatchlists failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetWatchlists completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbWatchlist dbModel.Watchlist
		err = rows.StructScan(&dbWatchlist)
		if err != nil {
			return nil, err
		}

		watchlist, err := dbConverter.ConvertWatchlist(dbWatchlist)
		if err != nil {
			return nil, err
		}
		watchlists = append(watchlists, watchlist)
	}

	return watchlists, nil
}

func (r *Postgres) GetWatchlist(ctx context.Context, watchlistID int64) (watchlist model.Watchlist, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetWatchlist"
	query := `
		SELECT watchlist_id, name, stock_ids, created_at
		FROM watchlists
		WHERE watchlist_id = $1
		`

	slog.Debug("GetWatchlist start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("watchlistID", watchlistID))
	defer func() {
		if err != nil {
			slog.Error("GetWatchlist failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetWatchlist completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbWatchlist := dbModel.Watchlist{}
	err = r.db.QueryRowxContext(ctx, query, watchlistID).StructScan(&dbWatchlist)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Watchlist{}, ErrNotFound
		}
		return model.Watchlist{}, err
	}

	return dbConverter.ConvertWatchlist(dbWatchlist)
}

func (r *Postgres) UpdateWatchlist(ctx context.Context, watchlistID int64, name string, stockIDs []int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateWatchlist"
	query := `UPDATE watchlists SET name = $1, stock_ids = $2 WHERE watchlist_id = $3`

	slog.Debug("UpdateWatchlist start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("watchlistID", watchlistID))
	defer func() {
		if err != nil {
			slog.Error("UpdateWatchlist failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateWatchlist completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	ids, err := json.Marshal(stockIDs)
	if err != nil {
		return fmt.Errorf("marshal stock ids: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, name, ids, watchlistID)
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

func (r *Postgres) DeleteWatchlist(ctx context.Context, watchlistID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteWatchlist"
	query := `DELETE FROM watchlists WHERE watchlist_id = $1`

	slog.Debug("DeleteWatchlist start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("watchlistID", watchlistID))
	defer func() {
		if err != nil {
			slog.Error("DeleteWatchlist failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteWatchlist completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := r.db.ExecContext(ctx, query, watchlistID)
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
