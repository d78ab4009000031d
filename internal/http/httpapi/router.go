package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"docman/internal/http/handlers"
	"docman/internal/infra"
	"docman/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/ingestion", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Post("/", app.JobsCreate)
		r.Get("/", app.JobsList)
		r.Get("/stats", app.JobsStats)
		r.Get("/{id}", app.JobsGet)
		r.Post("/{id}/retry", app.JobsRetry)
		r.Delete("/{id}", app.JobsCancel)
	})

	return r
}
