package dashboardService

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfarghaly/egx_dashboard_api/data/repository"
	"github.com/mfarghaly/egx_dashboard_api/internal/holdings"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

// StrategyReportFile is a rendered export plus the optional cloud storage
// link when uploads are enabled.
type StrategyReportFile struct {
	Filename     string
	Content      []byte
	DownloadLink string
}

// GenerateStrategyReport renders the strategy into an xlsx file: summary,
// current positions and the latest pending plan if one exists.
func (s *DashboardService) GenerateStrategyReport(ctx context.Context, strategyID int64) (file StrategyReportFile, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "DashboardService.GenerateStrategyReport"

	slog.Debug("GenerateStrategyReport start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("strategyID", strategyID))
	defer func() {
		if err != nil {
			slog.Error("GenerateStrategyReport failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		} else {
			slog.Debug("GenerateStrategyReport completed", slog.String("rqID", rqID), slog.String("op", op), slog.String("filename", file.Filename))
		}
	}()

	strategy, err := s.repo.GetStrategy(ctx, strategyID)
	if err != nil {
		return StrategyReportFile{}, mapRepoErr(err)
	}

	summary, err := s.buildSummary(ctx, strategy)
	if err != nil {
		return StrategyReportFile{}, err
	}

	hs, err := s.repo.GetHoldings(ctx, strategyID)
	if err != nil {
		return StrategyReportFile{}, err
	}

	positions := holdings.Aggregate(hs)
	totalValue := holdings.TotalValue(positions)

	report := model.StrategyReport{Summary: summary}
	for _, p := range positions {
		report.Positions = append(report.Positions, model.ReportPosition{
			Symbol:        p.Symbol,
			Quantity:      p.Quantity,
			AveragePrice:  p.AveragePrice,
			CurrentPrice:  p.CurrentPrice,
			CurrentValue:  p.CurrentValue(),
			AllocationPct: p.AllocationPercent(totalValue),
		})
	}

	pending, err := s.repo.GetLatestPendingRebalance(ctx, strategyID)
	switch {
	case err == nil:
		report.Actions = pending.Actions
	case errors.Is(err, repository.ErrNotFound):
		err = nil
	default:
		return StrategyReportFile{}, err
	}

	content, ext, err := s.reportGen.Generate(ctx, report)
	if err != nil {
		return StrategyReportFile{}, err
	}

	file = StrategyReportFile{
		Filename: fmt.Sprintf("strategy_%d_%s%s", strategyID, time.Now().UTC().Format("2006-01-02"), ext),
		Content:  content,
	}

	if s.cfg.GoogleDrive.Enabled && s.cloudStorage != nil {
		link, uploadErr := s.cloudStorage.UploadFile(ctx, bytes.NewReader(content), file.Filename)
		if uploadErr != nil {
			slog.Warn("failed uploading report to cloud storage", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", uploadErr.Error()))
		} else {
			file.DownloadLink = link
		}
	}

	return file, nil
}
