package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfarghaly/egx_dashboard_api/internal/converter/dbConverter"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/dbModel"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

func (r *Postgres) InsertPortfolioSnapshot(ctx context.Context, portfolioID int64, value decimal.Decimal, date time.Time) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertPortfolioSnapshot"
	query := `
		INSERT INTO portfolio_snapshots(portfolio_id, total_value, snapshot_date)
		VALUES($1, $2, $3)
		ON CONFLICT (portfolio_id, snapshot_date) DO UPDATE SET total_value = EXCLUDED.total_value
		`

	slog.Debug("InsertPortfolioSnapshot start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("InsertPortfolioSnapshot failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertPortfolioSnapshot completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.db.ExecContext(ctx, query, portfolioID, value, date)
	return err
}

func (r *Postgres) InsertStrategySnapshot(ctx context.Context, strategyID int64, value decimal.Decimal, date time.Time) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertStrategySnapshot"
	query := `
		INSERT INTO strategy_snapshots(strategy_id, total_value, snapshot_date)
		VALUES($1, $2, $3)
		ON CONFLICT (strategy_id, snapshot_date) DO UPDATE SET total_value = EXCLUDED.total_value
		`

	slog.Debug("InsertStrategySnapshot start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("InsertStrategySnapshot failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertStrategySnapshot completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	_, err = r.db.ExecContext(ctx, query, strategyID, value, date)
	return err
}

// GetPortfolioSnapshots returns the value history oldest first, ready to be
// used as a performance series.
func (r *Postgres) GetPortfolioSnapshots(ctx context.Context, portfolioID int64) (points []model.PerformancePoint, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetPortfolioSnapshots"
	query := `
		SELECT snapshot_id, portfolio_id AS owner_id, total_value, snapshot_date
		FROM portfolio_snapshots
		WHERE portfolio_id = $1
		ORDER BY snapshot_date
		`

	slog.Debug("GetPortfolioSnapshots start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("portfolioID", portfolioID))
	defer func() {
		if err != nil {
			slog.Error("GetPortfolioSnapshots failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetPortfolioSnapshots completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query, portfolioID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var snapshot dbModel.Snapshot
		err = rows.StructScan(&snapshot)
		if err != nil {
			return nil, err
		}
		points = append(points, dbConverter.ConvertSnapshot(snapshot))
	}

	return points, nil
}

func (r *Postgres) GetStrategySnapshots(ctx context.Context, strategyID int64) (points []model.PerformancePoint, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetStrategySnapshots"
	query := `
		SELECT snapshot_id, strategy_id AS owner_id, total_value, snapshot_date
		FROM strategy_snapshots
		WHERE strategy_id = $1
		ORDER BY snapshot_date
		`

	slog.Debug("GetStrategySnapshots start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetStrategySnapshots failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStrategySnapshots completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query, strategyID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var snapshot dbModel.Snapshot
		err = rows.StructScan(&snapshot)
		if err != nil {
			return nil, err
		}
		points = append(points, dbConverter.ConvertSnapshot(snapshot))
	}

	return points, nil
}
