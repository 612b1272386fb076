/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request, echoed in error logs
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests from the dashboard

ROUTE GROUPS:
  /api/health           Liveness
  /api/salespeople/*    Salespeople, their activities, summaries, dashboard
  /api/commercial/*     Edit/delete commercial activities by ID
  /api/health-acts/*    Edit/delete health activities by ID
  /api/finance/*        Agency bookkeeping and projection
  /api/audit            Mutation history
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

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

// DefaultAllowedOrigins are used when no origins are configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor-ID"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Salesperson routes
		r.Route("/salespeople", func(r chi.Router) {
			r.Get("/", h.ListSalespeople)
			r.Post("/", h.CreateSalesperson)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/commercial", h.ListCommercial)
				r.Post("/commercial", h.CreateCommercial)
				r.Get("/commercial/summary", h.CommercialSummary)
				r.Get("/commercial/yearly", h.CommercialYearly)

				r.Get("/health", h.ListHealth)
				r.Post("/health", h.CreateHealth)
				r.Get("/health/summary", h.HealthSummary)

				r.Get("/dashboard", h.Dashboard)
			})
		})

		// Activity routes by ID
		r.Route("/commercial", func(r chi.Router) {
			r.Put("/{activityID}", h.UpdateCommercial)
			r.Delete("/{activityID}", h.DeleteCommercial)
		})
		r.Route("/health-acts", func(r chi.Router) {
			r.Put("/{activityID}", h.UpdateHealth)
			r.Delete("/{activityID}", h.DeleteHealth)
		})

		// Agency bookkeeping
		r.Route("/finance/{agency}", func(r chi.Router) {
			r.Get("/entries", h.ListMonthlyEntries)
			r.Put("/entries/{year}/{month}", h.PutMonthlyEntry)
			r.Delete("/entries/{year}/{month}", h.DeleteMonthlyEntry)
			r.Get("/summary", h.FinanceSummary)
		})

		r.Get("/audit", h.ListAudit)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
