package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/openfx/backoffice/internal/adapter/http/handler"
	"github.com/openfx/backoffice/internal/adapter/http/middleware"
	"github.com/openfx/backoffice/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TransactionHandler *handler.TransactionHandler
	JournalHandler     *handler.JournalHandler
	StockHandler       *handler.StockHandler
	AccountHandler     *handler.AccountHandler
	CatalogHandler     *handler.CatalogHandler
	SettingsHandler    *handler.SettingsHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.NewLoggingMiddleware(log.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Process)
			r.Get("/", cfg.JournalHandler.List)
			r.Get("/{id}", cfg.JournalHandler.Get)
			r.Patch("/{id}", cfg.JournalHandler.UpdateDetails)
			r.Post("/{id}/reverse", cfg.TransactionHandler.Reverse)
		})

		// Currency stock, read-only
		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", cfg.StockHandler.List)
			r.Get("/{currencyID}", cfg.StockHandler.Get)
		})

		// Clients and their running accounts
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", cfg.CatalogHandler.CreateClient)
			r.Get("/", cfg.CatalogHandler.ListClients)
			r.Get("/{id}", cfg.CatalogHandler.GetClient)
			r.Put("/{id}", cfg.CatalogHandler.UpdateClient)
			r.Delete("/{id}", cfg.CatalogHandler.DeleteClient)
			// Running accounts are read-only here: only the transaction
			// engine writes balances and movements.
			r.Get("/{id}/accounts", cfg.AccountHandler.ListBalances)
			r.Get("/{id}/accounts/{currencyID}", cfg.AccountHandler.GetBalance)
			r.Get("/{id}/movements", cfg.AccountHandler.ListMovements)
		})

		// Currency catalog
		r.Route("/currencies", func(r chi.Router) {
			r.Post("/", cfg.CatalogHandler.CreateCurrency)
			r.Get("/", cfg.CatalogHandler.ListCurrencies)
			r.Get("/{id}", cfg.CatalogHandler.GetCurrency)
			r.Put("/{id}", cfg.CatalogHandler.UpdateCurrency)
			r.Post("/{id}/base", cfg.CatalogHandler.SetBaseCurrency)
			r.Delete("/{id}", cfg.CatalogHandler.DeleteCurrency)
		})

		// Movement-type catalog
		r.Route("/movement-types", func(r chi.Router) {
			r.Post("/", cfg.CatalogHandler.CreateMovementType)
			r.Get("/", cfg.CatalogHandler.ListMovementTypes)
			r.Get("/{id}", cfg.CatalogHandler.GetMovementType)
			r.Put("/{id}", cfg.CatalogHandler.UpdateMovementType)
			r.Delete("/{id}", cfg.CatalogHandler.DeleteMovementType)
		})

		// Engine parameters
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.Get)
			r.Put("/", cfg.SettingsHandler.Update)
		})
	})

	return r
}
