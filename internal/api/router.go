package api

import (
	"net/http"

	"github.com/Rrens/interaction-drafts/internal/api/handler"
	customMiddleware "github.com/Rrens/interaction-drafts/internal/api/middleware"
	"github.com/Rrens/interaction-drafts/internal/config"
	"github.com/Rrens/interaction-drafts/internal/repository/redis"
	"github.com/Rrens/interaction-drafts/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. rateLimiter may be nil, in which
// case sync endpoints are not throttled. ready lists the dependencies checked by /ready.
func NewRouter(cfg *config.Config, editor *service.EditorService, rateLimiter *redis.RateLimiter, ready ...handler.Pinger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID", "X-Clipboard-Copied", "Content-Disposition"},
		MaxAge:         300,
	}))

	interactionHandler := handler.NewInteractionHandler(editor)
	transferHandler := handler.NewTransferHandler(editor)
	syncHandler := handler.NewSyncHandler(editor)

	if !cfg.Feature.Enabled {
		log.Warn().Msg("Agent interactions feature is disabled")
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(ready...))

		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.RequireFeature(cfg.Feature.Enabled))

			r.Route("/interactions", func(r chi.Router) {
				r.Get("/", interactionHandler.List)
				r.Post("/", interactionHandler.Create)
				r.Post("/reset", interactionHandler.Reset)
				r.Get("/export", transferHandler.Export)
				r.Post("/import", transferHandler.Import)

				r.Route("/{interactionID}", func(r chi.Router) {
					r.Patch("/", interactionHandler.Update)
					r.Delete("/", interactionHandler.Delete)
					r.Put("/select", interactionHandler.Select)
					r.Put("/content", interactionHandler.SetContent)
					r.Post("/paste", interactionHandler.Paste)
					r.Post("/duplicate", interactionHandler.Duplicate)
					r.Post("/move", interactionHandler.Move)
				})
			})

			r.Route("/sync", func(r chi.Router) {
				r.Get("/status", syncHandler.Status)

				r.Group(func(r chi.Router) {
					if rateLimiter != nil {
						r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
					}
					r.Post("/hydrate", syncHandler.Hydrate)
					r.Post("/publish", syncHandler.Publish)
				})
			})
		})
	})

	return r
}
