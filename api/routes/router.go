package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/spa-storefront/api/controllers"
	cartcontrollers "github.com/angelmondragon/spa-storefront/api/controllers/cart"
	"github.com/angelmondragon/spa-storefront/api/middleware"
	"github.com/angelmondragon/spa-storefront/internal/cart"
	"github.com/angelmondragon/spa-storefront/internal/catalog"
	checkoutsvc "github.com/angelmondragon/spa-storefront/internal/checkout"
	"github.com/angelmondragon/spa-storefront/pkg/config"
	"github.com/angelmondragon/spa-storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	cartStore *cart.Store,
	products *catalog.Catalog,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, cartStore))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(products))
		r.Get("/products/{id}", controllers.ProductDetail(products, logg))
		r.Get("/categories", controllers.ProductCategories(products))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg, cfg.App.IsProd()))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(cartStore, logg))
				r.Delete("/", cartcontrollers.CartClear(cartStore, logg))
				r.Get("/count", cartcontrollers.CartCount(cartStore, logg))
				r.Post("/items", cartcontrollers.CartAddItem(cartStore, products, logg))
				r.Patch("/items/{id}", cartcontrollers.CartSetQuantity(cartStore, logg))
				r.Delete("/items/{id}", cartcontrollers.CartRemoveItem(cartStore, logg))
			})
			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		})
	})

	return r
}
