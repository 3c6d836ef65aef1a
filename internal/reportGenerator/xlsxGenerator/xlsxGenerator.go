package xlsxGenerator

import (
	"context"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

func (g *XLSXGenerator) Generate(ctx context.Context, report model.StrategyReport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillSummarySheet(f, report); err != nil {
		slog.Error("got error while filling summary sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if err := g.fillHoldingsSheet(f, report.Positions); err != nil {
		slog.Error("got error while filling holdings sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	if len(report.Actions) > 0 {
		if err := g.fillActionsSheet(f, report.Actions); err != nil {
			slog.Error("got error while filling actions sheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XLSXGenerator) fillSummarySheet(f *excelize.File, report model.StrategyReport) error {
	const sheetName = "Summary"

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	summary := report.Summary

	rows := [][]any{
		{"Strategy", summary.Name},
		{"Total funds (EGP)", summary.TotalFunds.InexactFloat64()},
		{"Remaining cash (EGP)", summary.RemainingCash.InexactFloat64()},
		{"Current value (EGP)", summary.CurrentValue.InexactFloat64()},
		{"Profit / loss (EGP)", summary.ProfitLoss.InexactFloat64()},
		{"Profit / loss (%)", summary.ProfitLossPct.InexactFloat64()},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	return g.boldHeaderColumn(f, sheetName, len(rows))
}

func (g *XLSXGenerator) fillHoldingsSheet(f *excelize.File, positions []model.ReportPosition) error {
	const sheetName = "Holdings"

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	header := []any{"Symbol", "Quantity", "Avg price", "Current price", "Current value", "Weight %"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, p := range positions {
		row := []any{
			p.Symbol,
			p.Quantity,
			p.AveragePrice.InexactFloat64(),
			p.CurrentPrice.InexactFloat64(),
			p.CurrentValue.InexactFloat64(),
			p.AllocationPct.InexactFloat64(),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	return g.boldHeaderRow(f, sheetName, len(header))
}

func (g *XLSXGenerator) fillActionsSheet(f *excelize.File, actions []model.RebalanceAction) error {
	const sheetName = "Rebalance plan"

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	header := []any{"Symbol", "Action", "Quantity", "Price", "Total amount"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, a := range actions {
		row := []any{
			a.Symbol,
			string(a.Side),
			a.Quantity,
			a.Price.InexactFloat64(),
			a.TotalAmount.InexactFloat64(),
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	return g.boldHeaderRow(f, sheetName, len(header))
}

func (g *XLSXGenerator) boldHeaderRow(f *excelize.File, sheetName string, cols int) error {
	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	lastCell, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheetName, "A1", lastCell, styleID)
}

func (g *XLSXGenerator) boldHeaderColumn(f *excelize.File, sheetName string, rows int) error {
	styleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	lastCell, err := excelize.CoordinatesToCellName(1, rows)
	if err != nil {
		return err
	}

	return f.SetCellStyle(sheetName, "A1", lastCell, styleID)
}
