/*
server.go - HTTP router and middleware configuration

PURPOSE:

	Configures the chi router, middleware stack, and route definitions. This is
	the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
 1. Logger:     Request logging
 2. Recoverer:  Panic recovery (500 instead of crash)
 3. RequestID:  Unique ID per request for tracing
 4. CORS:       Cross-origin requests for the roster UI

ROUTE GROUPS:

	/api/rosters/{id}/rows        Raw rotation rows (CRUD passthrough)
	/api/rosters/{id}/pivot       Pivoted cycles + data-quality warnings
	/api/rosters/{id}/conflicts   Double-booking flags (advisory)
	/api/rosters/{id}/statement   Monthly allowance statement
	/api/rosters/{id}/pending     Unsaved-edit staging
	/api/crew                     Crew profiles
	/api/health                   Liveness

SECURITY NOTE:

	No authentication middleware here. Role-gated page access lives in the UI
	layer and is out of this service's scope.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/rosters/{rosterID}", func(r chi.Router) {
			r.Get("/rows", h.ListRows)
			r.Post("/rows", h.SaveRow)

			r.Get("/pivot", h.GetPivot)
			r.Get("/conflicts", h.GetConflicts)
			r.Get("/statement", h.GetStatement)

			r.Put("/pending", h.StagePendingEdit)
			r.Delete("/pending", h.DiscardPending)
		})

		r.Route("/rows", func(r chi.Router) {
			r.Get("/{id}", h.GetRow)
			r.Delete("/{id}", h.DeleteRow)
		})

		r.Route("/crew", func(r chi.Router) {
			r.Get("/", h.ListCrew)
			r.Post("/", h.SaveCrew)
		})
	})

	return r
}
