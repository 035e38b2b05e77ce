package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ordering-engine/api/controllers"
	"github.com/angelmondragon/ordering-engine/api/middleware"
	"github.com/angelmondragon/ordering-engine/internal/session"
	"github.com/angelmondragon/ordering-engine/pkg/config"
	"github.com/angelmondragon/ordering-engine/pkg/logger"
	"github.com/angelmondragon/ordering-engine/pkg/redis"
)

// NewRouter mounts the widget API. redisPinger and idempotencyStore may be
// nil when redis is not configured; metricsHandler may be nil to skip /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *session.Registry,
	redisPinger redis.Pinger,
	idempotencyStore redis.IdempotencyStore,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, registry.Catalog().Len(), redisPinger))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", controllers.CatalogList(registry.Catalog(), logg))

		r.Post("/sessions", controllers.SessionCreate(registry, logg))

		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Use(middleware.LoadSession(registry, logg))

			r.Delete("/", controllers.SessionClose(registry, logg))
			r.Get("/cart", controllers.CartFetch(logg))
			r.Delete("/cart/lines/{lineId}", controllers.CartLineRemove(logg))
			r.Put("/cart/lines/{lineId}/quantity", controllers.CartLineQuantity(logg))

			r.Post("/configurations", controllers.ConfigurationStart(logg))
			r.Route("/configurations/{configurationId}", func(r chi.Router) {
				r.Get("/", controllers.ConfigurationFetch(logg))
				r.Delete("/", controllers.ConfigurationDiscard(logg))
				r.Put("/selections", controllers.ConfigurationSelect(logg))
				r.Put("/quantity", controllers.ConfigurationQuantity(logg))
				r.Post("/cart", controllers.ConfigurationAddToCart(logg))
			})

			r.With(middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg)).
				Post("/orders", controllers.OrderSubmit(logg))
		})
	})

	return r
}
