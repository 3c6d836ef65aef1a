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

// GetHoldings joins the live stock price onto every holding so callers get
// a full market snapshot in one query. Ordered by holding id: insertion
// order, which the aggregator relies on.
func (r *Postgres) GetHoldings(ctx context.Context, strategyID int64) (holdings []model.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.GetHoldings"
	query := `
		SELECT h.holding_id, h.strategy_id, h.portfolio_id, h.stock_id, s.symbol,
			h.quantity, h.average_price, s.current_price, h.purchase_date
		FROM holdings h
		JOIN stocks s ON s.stock_id = h.stock_id
		WHERE h.strategy_id = $1
		ORDER BY h.holding_id
		`

	slog.Debug("GetHoldings start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GetHoldings failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHoldings completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	rows, err := r.db.QueryxContext(ctx, query, strategyID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var holding dbModel.Holding
		err = rows.StructScan(&holding)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, dbConverter.ConvertHolding(holding))
	}

	return holdings, nil
}

// RebalanceApplication is everything one executed (or undone) rebalance
// changes, applied in a single transaction. RecordID 0 applies the holding
// mutations without touching rebalance history (initial purchases).
type RebalanceApplication struct {
	StrategyID    int64
	RecordID      int64
	RemainingCash decimal.Decimal
	Upserts       []model.Holding
	DeleteIDs     []int64
	MarkUndone    bool
}

func (r *Postgres) ApplyRebalance(ctx context.Context, app RebalanceApplication) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "Postgres.ApplyRebalance"

	slog.Debug(
		"ApplyRebalance start",
		slog.String("rqID", rqID),
		slog.String("op", op),
		slog.Int64("strategyID", app.StrategyID),
		slog.Int64("recordID", app.RecordID),
		slog.Int("upserts", len(app.Upserts)),
		slog.Int("deletes", len(app.DeleteIDs)),
	)
	defer func() {
		if err != nil {
			slog.Error("ApplyRebalance failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("ApplyRebalance completed", slog.String("rqID", rqID), slog.String("op", op))
		}
	}()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, h := range app.Upserts {
		if h.HoldingID == 0 {
			purchaseDate := h.PurchaseDate
			if purchaseDate.IsZero() {
				purchaseDate = time.Now().UTC()
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO holdings(strategy_id, portfolio_id, stock_id, quantity, average_price, purchase_date)
				VALUES($1, $2, $3, $4, $5, $6)`,
				h.StrategyID, h.PortfolioID, h.StockID, h.Quantity, h.AveragePrice, purchaseDate,
			)
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE holdings
				SET quantity = $1, average_price = $2
				WHERE holding_id = $3`,
				h.Quantity, h.AveragePrice, h.HoldingID,
			)
		}
		if err != nil {
			return err
		}
	}

	if len(app.DeleteIDs) > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM holdings WHERE holding_id = ANY($1)`, app.DeleteIDs)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `UPDATE strategies SET remaining_cash = $1 WHERE strategy_id = $2`,
		app.RemainingCash, app.StrategyID)
	if err != nil {
		return err
	}

	if app.RecordID != 0 {
		if app.MarkUndone {
			_, err = tx.ExecContext(ctx, `UPDATE rebalance_history SET undone = true, undone_at = now() WHERE record_id = $1`, app.RecordID)
		} else {
			_, err = tx.ExecContext(ctx, `UPDATE rebalance_history SET executed = true, executed_at = now() WHERE record_id = $1`, app.RecordID)
		}
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
