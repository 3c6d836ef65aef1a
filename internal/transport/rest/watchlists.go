package rest

import (
	"encoding/json"
	"net/http"

	"github.com/mfarghaly/egx_dashboard_api/internal/converter/restConverter"
	"github.com/mfarghaly/egx_dashboard_api/internal/model/restModel"
)

func (c *Controller) createWatchlist(w http.ResponseWriter, r *http.Request) {
	var req restModel.PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}

	watchlistID, err := c.dashboardService.CreateWatchlist(r.Context(), req.Name, req.StockIDs)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"watchlist_id": watchlistID})
}

func (c *Controller) getWatchlists(w http.ResponseWriter, r *http.Request) {
	watchlists, err := c.dashboardService.GetWatchlists(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertWatchlists(watchlists))
}

func (c *Controller) getWatchlist(w http.ResponseWriter, r *http.Request) {
	watchlistID, err := pathID(r, "watchlistID")
	if err != nil {
		badRequest(w, "invalid watchlist id")
		return
	}

	watchlist, stocks, err := c.dashboardService.GetWatchlist(r.Context(), watchlistID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertWatchlist(watchlist, stocks))
}

func (c *Controller) updateWatchlist(w http.ResponseWriter, r *http.Request) {
	watchlistID, err := pathID(r, "watchlistID")
	if err != nil {
		badRequest(w, "invalid watchlist id")
		return
	}

	var req restModel.PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if err := c.dashboardService.UpdateWatchlist(r.Context(), watchlistID, req.Name, req.StockIDs); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (c *Controller) deleteWatchlist(w http.ResponseWriter, r *http.Request) {
	watchlistID, err := pathID(r, "watchlistID")
	if err != nil {
		badRequest(w, "invalid watchlist id")
		return
	}

	if err := c.dashboardService.DeleteWatchlist(r.Context(), watchlistID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
