package rest

import (
	"encoding/json"
	"net/http"

	"github.com/mfarghaly/egx_dashboard_api/internal/converter/restConverter"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/restModel"
)

func (c *Controller) createPortfolio(w http.ResponseWriter, r *http.Request) {
	var req restModel.PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	portfolioID, err := c.dashboardService.CreatePortfolio(r.Context(), req.Name, req.StockIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"portfolio_id": portfolioID})
}

func (c *Controller) getPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := c.dashboardService.GetPortfolios(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertPortfolios(portfolios))
}

func (c *Controller) getPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, "portfolioID")
	if err != nil {
		badRequest(w, "invalid portfolio id")
		return
	}

	portfolio, err := c.dashboardService.GetPortfolio(r.Context(), portfolioID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertPortfolio(portfolio))
}

func (c *Controller) updatePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, "portfolioID")
	if err != nil {
		badRequest(w, "invalid portfolio id")
		return
	}

	var req restModel.PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := c.dashboardService.UpdatePortfolio(r.Context(), portfolioID, req.Name, req.StockIDs); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) deletePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, "portfolioID")
	if err != nil {
		badRequest(w, "invalid portfolio id")
		return
	}

	if err := c.dashboardService.DeletePortfolio(r.Context(), portfolioID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) getPortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := pathID(r, "portfolioID")
	if err != nil {
		badRequest(w, "invalid portfolio id")
		return
	}

	series, err := c.dashboardService.GetPortfolioPerformance(r.Context(), portfolioID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, series)
}

func (c *Controller) comparePortfolios(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		badRequest(w, "invalid ids parameter")
		return
	}
	if len(ids) < 2 {
		badRequest(w, "at least two portfolio ids are required")
		return
	}

	report, err := c.dashboardService.ComparePortfolios(r.Context(), ids)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}
