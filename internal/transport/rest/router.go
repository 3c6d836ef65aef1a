package rest

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mfarghaly/egx_dashboard_api/config"
)

func NewRouter(cfg *config.Config, controller *Controller) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(logRequests)
	r.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "X-Download-Link", "Content-Disposition"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controller.health)

		r.Route("/strategies", func(r chi.Router) {
			r.Get("/", controller.getStrategies)
			r.Post("/", controller.createStrategy)

			r.Route("/{strategyID}", func(r chi.Router) {
				r.Get("/", controller.getStrategy)
				r.Put("/", controller.updateStrategy)
				r.Delete("/", controller.deleteStrategy)
				r.Get("/holdings", controller.getStrategyHoldings)
				r.Get("/performance", controller.getStrategyPerformance)
				r.Get("/report", controller.getStrategyReport)
				r.Post("/rebalance/calculate", controller.calculateRebalance)
				r.Post("/rebalance/execute", controller.executeRebalance)
				r.Get("/rebalance/history", controller.getRebalanceHistory)
			})
		})

		r.Post("/rebalance/{recordID}/undo", controller.undoRebalance)

		r.Route("/portfolios", func(r chi.Router) {
			r.Get("/", controller.getPortfolios)
			r.Post("/", controller.createPortfolio)
			r.Get("/compare", controller.comparePortfolios)

			r.Route("/{portfolioID}", func(r chi.Router) {
				r.Get("/", controller.getPortfolio)
				r.Put("/", controller.updatePortfolio)
				r.Delete("/", controller.deletePortfolio)
				r.Get("/performance", controller.getPortfolioPerformance)
			})
		})

		r.Route("/watchlists", func(r chi.Router) {
			r.Get("/", controller.getWatchlists)
			r.Post("/", controller.createWatchlist)

			r.Route("/{watchlistID}", func(r chi.Router) {
				r.Get("/", controller.getWatchlist)
				r.Put("/", controller.updateWatchlist)
				r.Delete("/", controller.deleteWatchlist)
			})
		})

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", controller.getStocks)
			r.Get("/prices", controller.getStockPrices)
			r.Get("/{symbol}", controller.getStockBySymbol)
		})
	})

	return r
}
