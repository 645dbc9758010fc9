package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wonny/kisfolio/internal/api/handlers"
	"github.com/wonny/kisfolio/internal/api/middleware"
)

// Config holds router configuration
type Config struct {
	HealthHandler   *handlers.HealthHandler
	TokenHandler    *handlers.TokenHandler
	QuotesHandler   *handlers.QuotesHandler
	WeightsHandler  *handlers.WeightsHandler
	OrdersHandler   *handlers.OrdersHandler
	ScenarioHandler *handlers.ScenarioHandler
	HoldingsHandler *handlers.HoldingsHandler
	ReportHandler   *handlers.ReportHandler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging("/health"))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", cfg.HealthHandler.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", cfg.HealthHandler.Health)

		// Token
		r.Post("/kis/token", cfg.TokenHandler.IssueToken)

		// Quotes
		r.Get("/quotes/daily", cfg.QuotesHandler.GetDaily)

		// Portfolio
		r.Post("/portfolio/weights", cfg.WeightsHandler.ComputeWeights)

		// Orders
		r.Route("/orders", func(r chi.Router) {
			r.Post("/preview", cfg.OrdersHandler.Preview)
			r.Post("/execute", cfg.OrdersHandler.Execute)
		})

		// Scenario trading
		r.Route("/scenario", func(r chi.Router) {
			r.Post("/preview", cfg.ScenarioHandler.Preview)
			r.Post("/execute", cfg.ScenarioHandler.Execute)
		})

		// Holdings
		r.Get("/holdings", cfg.HoldingsHandler.GetHoldings)

		// Investment report
		r.Post("/report", cfg.ReportHandler.Generate)
	})

	return r
}
