package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/greenhaven/storefront-backend/api/controllers"
	cartcontrollers "github.com/greenhaven/storefront-backend/api/controllers/cart"
	"github.com/greenhaven/storefront-backend/api/middleware"
	cartsvc "github.com/greenhaven/storefront-backend/internal/cart"
	"github.com/greenhaven/storefront-backend/internal/catalog"
	checkoutsvc "github.com/greenhaven/storefront-backend/internal/checkout"
	"github.com/greenhaven/storefront-backend/internal/taxsync"
	"github.com/greenhaven/storefront-backend/pkg/config"
	"github.com/greenhaven/storefront-backend/pkg/logger"
	"github.com/greenhaven/storefront-backend/pkg/metrics"
)

// Deps collects everything the HTTP surface needs. The metrics handler is
// passed in so the registry stays owned by main.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        controllers.Pinger
	RedisPinger     controllers.Pinger
	RateLimiter     middleware.RateLimiter
	CartService     cartsvc.Service
	TaxSyncService  taxsync.Service
	CheckoutService checkoutsvc.Service
	CatalogRepo     *catalog.Repository
	HTTPMetrics     *metrics.HTTPMetrics
	CheckoutMetrics *metrics.CheckoutMetrics
	MetricsHandler  http.Handler
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, map[string]controllers.Pinger{
			"database": deps.DBPinger,
			"redis":    deps.RedisPinger,
		}))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	} else {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.Logger, deps.RateLimiter, deps.Config.RateLimit))

		r.Get("/catalog/variants", controllers.CatalogList(deps.CatalogRepo, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cartcontrollers.CartCreate(deps.CartService, deps.Logger))
			r.Route("/{cartId}", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(deps.CartService, deps.Logger))
				r.Post("/lines", cartcontrollers.CartAddLines(deps.CartService, deps.Logger))
				r.Patch("/lines/{lineId}", cartcontrollers.CartUpdateLine(deps.CartService, deps.Logger))
				r.Delete("/lines", cartcontrollers.CartRemoveLines(deps.CartService, deps.Logger))
				r.Post("/tax-sync", cartcontrollers.CartTaxSync(deps.TaxSyncService, deps.Logger))
			})
		})

		r.Post("/checkout", controllers.CheckoutBegin(deps.TaxSyncService, deps.CheckoutService, deps.CheckoutMetrics, deps.Logger))
	})

	return r
}
