package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fund-Visualization-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/config"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router.
// refreshService is nil when serving mock data.
func NewRouter(
	systemService *service.SystemService,
	fundService *service.FundService,
	portfolioService *service.PortfolioService,
	refreshService *service.RefreshService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		fundHandler := handlers.NewFundHandler(fundService, refreshService)
		r.Route("/funds", func(r chi.Router) {
			r.Get("/", fundHandler.Funds)
			r.Post("/refresh", fundHandler.Refresh)

			r.Route("/{symbol}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSymbolMiddleware)
				r.Get("/historical", fundHandler.History)
				r.Get("/price", fundHandler.Price)
			})
		})

		portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
		r.Get("/prices", portfolioHandler.Prices)
		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/summary", portfolioHandler.Summary)
			r.Get("/transactions", portfolioHandler.Transactions)
			r.Post("/transactions", portfolioHandler.CreateTransaction)
		})
	})

	return r
}
