package rest

import (
	"encoding/json"
	"net/http"

	"github.com/mfarghaly/egx_dashboard_api/internal/converter/restConverter"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/restModel"
)

func (c *Controller) createStrategy(w http.ResponseWriter, r *http.Request) {
	var req restModel.StrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	strategyID, err := c.dashboardService.CreateStrategy(r.Context(), model.StrategyDraft{
		Name:                 req.Name,
		TotalFunds:           req.TotalFunds,
		PortfolioAllocations: req.PortfolioAllocations,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"strategy_id": strategyID})
}

func (c *Controller) getStrategies(w http.ResponseWriter, r *http.Request) {
	summaries, err := c.dashboardService.GetStrategies(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertStrategySummaries(summaries))
}

func (c *Controller) getStrategy(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	summary, err := c.dashboardService.GetStrategy(r.Context(), strategyID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertStrategySummary(summary))
}

func (c *Controller) updateStrategy(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	var req restModel.StrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	err = c.dashboardService.UpdateStrategy(r.Context(), strategyID, model.StrategyDraft{
		Name:                 req.Name,
		TotalFunds:           req.TotalFunds,
		PortfolioAllocations: req.PortfolioAllocations,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) deleteStrategy(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	if err := c.dashboardService.DeleteStrategy(r.Context(), strategyID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) getStrategyHoldings(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	positions, err := c.dashboardService.GetStrategyHoldings(r.Context(), strategyID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertPositions(positions))
}

func (c *Controller) getStrategyPerformance(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	series, err := c.dashboardService.GetStrategyPerformance(r.Context(), strategyID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, series)
}

func (c *Controller) calculateRebalance(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	plan, err := c.dashboardService.CalculateRebalance(r.Context(), strategyID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertRebalancePlan(plan))
}

func (c *Controller) executeRebalance(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	record, err := c.dashboardService.ExecuteRebalance(r.Context(), strategyID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertRebalanceRecord(record))
}

func (c *Controller) getRebalanceHistory(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	records, err := c.dashboardService.GetRebalanceHistory(r.Context(), strategyID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertRebalanceRecords(records))
}

func (c *Controller) undoRebalance(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "recordID")
	if err != nil {
		badRequest(w, "invalid record id")
		return
	}

	if err := c.dashboardService.UndoRebalance(r.Context(), recordID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) getStrategyReport(w http.ResponseWriter, r *http.Request) {
	strategyID, err := pathID(r, "strategyID")
	if err != nil {
		badRequest(w, "invalid strategy id")
		return
	}

	file, err := c.dashboardService.GenerateStrategyReport(r.Context(), strategyID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if file.DownloadLink != "" {
		w.Header().Set("X-Download-Link", file.DownloadLink)
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
