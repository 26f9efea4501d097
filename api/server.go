/*
server.go - HTTP router and middleware configuration

PURPOSE:

	Configures the HTTP router (chi), middleware stack, and route definitions.
	This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
 1. RequestID:  Unique ID per request for tracing
 2. Logger:     Structured request logging (zap)
 3. Recoverer:  Panic recovery (500 instead of crash)
 4. Metrics:    Request counter by route pattern
 5. CORS:       Cross-origin requests for the dashboard

ROUTE GROUPS:

	/api/travelers/*      Travelers, flights, manual ledger, computed views
	/api/resolve          Point table lookup
	/api/program          Active program
	/api/scenarios/*      Demo scenarios
	/health               Liveness
	/metrics              Prometheus scrape endpoint

SECURITY NOTE:

	No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/xp-tracker/logging"
)

// NewRouter creates a new router with all routes configured. Requests from
// corsOrigins are allowed cross-origin.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.Logger))
	r.Use(middleware.Recoverer)
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", h.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/travelers", func(r chi.Router) {
			r.Get("/", h.ListTravelers)
			r.Post("/", h.CreateTraveler)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetTraveler)
				r.Delete("/", h.DeleteTraveler)
				r.Put("/settings", h.UpdateSettings)

				r.Get("/flights", h.ListFlights)
				r.Post("/flights", h.AddFlight)
				r.Post("/flights/import", h.ImportFlights)
				r.Delete("/flights/{flightID}", h.DeleteFlight)

				r.Get("/ledger", h.GetLedger)
				r.Put("/ledger/{month}", h.PutLedgerMonth)
				r.Delete("/ledger/{month}", h.DeleteLedgerMonth)

				r.Get("/cycles", h.GetCycles)
				r.Get("/status", h.GetStatus)
				r.Get("/stats", h.GetStats)

				r.Get("/snapshots", h.ListSnapshots)
				r.Post("/snapshots", h.TakeSnapshot)
			})
		})

		r.Get("/resolve", h.ResolveRoute)
		r.Get("/program", h.GetProgram)

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

// RequestLogger logs one line per request at Info, or Error for 5xx.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				fields := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).String(),
					"request_id", middleware.GetReqID(r.Context()),
				}
				if status >= http.StatusInternalServerError {
					logger.Error("http request", fields...)
					return
				}
				logger.Info("http request", fields...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
