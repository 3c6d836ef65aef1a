package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mfarghaly/egx_dashboard_api/internal/converter/restConverter"
)

func (c *Controller) getStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := c.dashboardService.GetStocks(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertStocks(stocks))
}

func (c *Controller) getStockPrices(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		badRequest(w, "invalid ids parameter")
		return
	}

	stocks, err := c.dashboardService.GetStockPrices(r.Context(), ids)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertStocks(stocks))
}

func (c *Controller) getStockBySymbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		badRequest(w, "symbol is required")
		return
	}

	stock, err := c.dashboardService.GetStockBySymbol(r.Context(), symbol)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, restConverter.ConvertStock(stock))
}

func (c *Controller) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
