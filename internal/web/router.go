package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/relaykit/quoterelay/internal/ratelimit"
	"github.com/relaykit/quoterelay/internal/web/handlers"
	"github.com/relaykit/quoterelay/internal/web/middleware"
)

// RouterDeps holds all dependencies needed to build the router.
type RouterDeps struct {
	IntakeHandler   *handlers.IntakeHandler
	SettingsHandler *handlers.SettingsHandler
	QuotesHandler   *handlers.QuotesHandler
	SetupHandler    *handlers.SetupHandler
	SessionsHandler *handlers.SessionsHandler
	Limiter         *ratelimit.Limiter
	AdminAPIToken   string
	Metrics         http.Handler
}

// NewRouter wires all routes into a Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RealIP)

	r.Get("/healthz", handlers.Health)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	// Public storefront API (CORS, rate limited)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CORS)
		r.Use(middleware.RateLimit(deps.Limiter))

		r.Post("/api/v1/quotes", deps.IntakeHandler.HandleSubmitQuote)
		r.Options("/api/v1/quotes", handlers.Preflight)
		r.Get("/api/v1/settings", deps.SettingsHandler.HandlePublicSettings)
		r.Options("/api/v1/settings", handlers.Preflight)
	})

	// Admin dashboard API (bearer token)
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.BearerAuth(deps.AdminAPIToken))

		r.Get("/quotes", deps.QuotesHandler.HandleListQuotes)
		r.Get("/quotes/{handle}", deps.QuotesHandler.HandleGetQuote)
		r.Post("/quotes/{handle}/status", deps.QuotesHandler.HandleUpdateStatus)
		r.Delete("/quotes/{handle}", deps.QuotesHandler.HandleDeleteQuote)
		r.Get("/settings", deps.SettingsHandler.HandleGetSettings)
		r.Put("/settings", deps.SettingsHandler.HandleSaveSettings)
		r.Post("/provision", deps.SetupHandler.HandleProvision)
		r.Put("/sessions", deps.SessionsHandler.HandleUpsertSession)
		r.Delete("/sessions", deps.SessionsHandler.HandleDeleteSession)
	})

	return r
}
