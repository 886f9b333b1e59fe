package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mw "github.com/itchan-dev/nanabbs/internal/middleware"
	"github.com/itchan-dev/nanabbs/internal/middleware/metrics"
	"github.com/itchan-dev/nanabbs/internal/setup"
)

// New creates and configures a chi router with all the routes.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestLogger(deps.Log))
	r.Use(metrics.Middleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(mw.SecurityHeadersWithCSP(deps.Config.Public.HTTP.SecureHeaders, mw.DefaultCSP))

	h := deps.Handler

	r.Get("/health", h.HealthHandler)
	r.Get("/ready", h.ReadyHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/", h.IndexGetHandler)
	r.Get("/threads/{id}", h.ThreadGetAllHandler)
	r.Get("/threads/{id}/", h.ThreadGetAllHandler)
	r.Get("/threads/{id}/{query}", h.ThreadGetHandler)

	// posting is throttled per client address
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit(deps.PostLimiter, mw.GetIP))
		r.Post("/threads", h.ThreadPostHandler)
		r.Post("/threads/{id}/responses", h.ResponsePostHandler)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.Config.Public.HTTP.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Accept-Language"},
			MaxAge:         300,
		}))
		r.Get("/threads", h.APIIndexHandler)
		r.Get("/threads/{id}", h.APIThreadGetAllHandler)
		r.Get("/threads/{id}/", h.APIThreadGetAllHandler)
		r.Get("/threads/{id}/{query}", h.APIThreadGetHandler)
	})

	return r
}
