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

func (r *Postgres) InsertRebalanceRecord(ctx context.Context, strategyID int64, actions []model.RebalanceAction) (recordID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.InsertRebalanceRecord"
	query := `
		INSERT INTO rebalance_history(strategy_id, actions)
		VALUES($1, $2)
		RETURNING record_id
		`

	slog.Debug("InsertRebalanceRecord start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID), slog.Int("actions", len(actions)))
	defer func() {
		if err != nil {
			slog.Error("InsertRebalanceRecord failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertRebalanceRecord completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	actionsJson, err := json.Marshal(actions)
	if err != nil {
		return 0, fmt.Errorf("marshal actions: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, strategyID, actionsJson).Scan(&recordID)
	if err != nil {
		return 0, err
	}

	return recordID, nil
}

func (r *Postgres) GetRebalanceRecords(ctx context.Context, strategyID int64) (records []model.RebalanceRecord, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetRebalanceRecords"
	query := `
		SELECT record_id, strategy_id, actions, executed, undone, created_at, executed_at, undone_at
		FROM rebalance_history
		WHERE strategy_id = $1
		ORDER BY created_at DESC
		`

	slog.Debug("GetRebalanceRecords start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetRebalanceRecords failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetRebalanceRecords completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query, strategyID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dbRecord dbModel.RebalanceRecord
		err = rows.StructScan(&dbRecord)
		if err != nil {
			return nil, err
		}

		record, err := dbConverter.ConvertRebalanceRecord(dbRecord)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func (r *Postgres) GetRebalanceRecord(ctx context.Context, recordID int64) (record model.RebalanceRecord, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetRebalanceRecord"
	query := `
		SELECT record_id, strategy_id, actions, executed, undone, created_at, executed_at, undone_at
		FROM rebalance_history
		WHERE record_id = $1
		`

	slog.Debug("GetRebalanceRecord start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("recordID", recordID))
	defer func() {
		if err != nil {
			slog.Error("GetRebalanceRecord failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetRebalanceRecord completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbRecord := dbModel.RebalanceRecord{}
	err = r.db.QueryRowxContext(ctx, query, recordID).StructScan(&dbRecord)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RebalanceRecord{}, ErrNotFound
		}
		return model.RebalanceRecord{}, err
	}

	return dbConverter.ConvertRebalanceRecord(dbRecord)
}

// GetLatestPendingRebalance returns the newest calculated-but-not-executed
// plan for a strategy.
func (r *Postgres) GetLatestPendingRebalance(ctx context.Context, strategyID int64) (record model.RebalanceRecord, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetLatestPendingRebalance"
	query := `
		SELECT record_id, strategy_id, actions, executed, undone, created_at, executed_at, undone_at
		FROM rebalance_history
		WHERE strategy_id = $1
		AND executed = false
		ORDER BY created_at DESC
		LIMIT 1
		`

	slog.Debug("GetLatestPendingRebalance start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetLatestPendingRebalance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetLatestPendingRebalance completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	dbRecord := dbModel.RebalanceRecord{}
	err = r.db.QueryRowxContext(ctx, query, strategyID).StructScan(&dbRecord)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RebalanceRecord{}, ErrNotFound
		}
		return model.RebalanceRecord{}, err
	}

	return dbConverter.ConvertRebalanceRecord(dbRecord)
}
