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

func (r *Postgres) CreateStrategy(ctx context.Context, draft model.StrategyDraft) (strategyID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.CreateStrategy"
	query := `
		INSERT INTO strategies(name, total_funds, remaining_cash, portfolio_allocations)
		VALUES($1, $2, $3, $4)
		RETURNING strategy_id
		`

	slog.Debug("CreateStrategy start", slog.String("rqID", rqID), slog.String("op", op), slog.String("name", draft.Name))
	defer func() {
		if err != nil {
			slog.Error("CreateStrategy failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("CreateStrategy completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	allocations, err := json.Marshal(draft.PortfolioAllocations)
	if err != nil {
		return 0, fmt.Errorf("marshal allocations: %w", err)
	}

	// a new strategy starts with all funds uninvested
	err = r.db.QueryRowContext(ctx, query, draft.Name, draft.TotalFunds, draft.TotalFunds, allocations).Scan(&strategyID)
	if err != nil {
		return 0, err
	}

	return strategyID, nil
}

func (r *Postgres) GetStrategies(ctx context.Context) (strategies []model.Strategy, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStrategies"
	query := `
		SELECT strategy_id, name, total_funds, remaining_cash, portfolio_allocations, created_at
		FROM strategies
		ORDER BY strategy_id
		`

	slog.Debug("GetStrategies start", slog.String("rqID", rqID), slog.String("op", op), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetStrategies failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStrategies completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbStrategy dbModel.Strategy
		err = rows.StructScan(&dbStrategy)
		if err != nil {
			return nil, err
		}

		strategy, err := dbConverter.ConvertStrategy(dbStrategy)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, strategy)
	}

	return strategies, nil
}

func (r *Postgres) GetStrategy(ctx context.Context, strategyID int64) (strategy model.Strategy, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStrategy"
	query := `
		SELECT strategy_id, name, total_funds, remaining_cash, portfolio_allocations, created_at
		FROM strategies
		WHERE strategy_id = $1
		`

	slog.Debug("GetStrategy start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetStrategy failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStrategy completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbStrategy := dbModel.Strategy{}
	err = r.db.QueryRowxContext(ctx, query, strategyID).StructScan(&dbStrategy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Strategy{}, ErrNotFound
		}
		return model.Strategy{}, err
	}

	return dbConverter.ConvertStrategy(dbStrategy)
}

func (r *Postgres) UpdateStrategy(ctx context.Context, strategyID int64, draft model.StrategyDraft) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.UpdateStrategy"
	query := `
		UPDATE strategies
		SET name = $1, total_funds = $2, portfolio_allocations = $3
		WHERE strategy_id = $4
		`

	slog.Debug("UpdateStrategy start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("UpdateStrategy failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateStrategy completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	allocations, err := json.Marshal(draft.PortfolioAllocations)
	if err != nil {
		return fmt.Errorf("marshal allocations: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, draft.Name, draft.TotalFunds, allocations, strategyID)
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

func (r *Postgres) DeleteStrategy(ctx context.Context, strategyID int64) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.DeleteStrategy"
	query := `DELETE FROM strategies WHERE strategy_id = $1`

	slog.Debug("DeleteStrategy start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("DeleteStrategy failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteStrategy completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	res, err := r.db.ExecContext(ctx, query, strategyID)
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
