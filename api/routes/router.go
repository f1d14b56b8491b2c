package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drcalc/drcalc-backend/api/controllers"
	"github.com/drcalc/drcalc-backend/api/middleware"
	"github.com/drcalc/drcalc-backend/internal/cart"
	"github.com/drcalc/drcalc-backend/internal/catalog"
	"github.com/drcalc/drcalc-backend/internal/dispatch"
	"github.com/drcalc/drcalc-backend/internal/recipes"
	"github.com/drcalc/drcalc-backend/internal/settings"
	"github.com/drcalc/drcalc-backend/pkg/config"
	"github.com/drcalc/drcalc-backend/pkg/docstore"
	"github.com/drcalc/drcalc-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store docstore.Pinger,
	catalogService catalog.Service,
	recipeService recipes.Service,
	settingsService settings.Service,
	dispatchService dispatch.Service,
	carts *cart.Manager,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", controllers.RecipesGet(recipeService, logg))
			r.Put("/", controllers.RecipesReplace(recipeService, logg))
			r.Post("/", controllers.RecipesUpsert(recipeService, logg))
			r.Delete("/{id}", controllers.RecipesDelete(recipeService, logg))
		})

		r.Route("/{mode}", func(r chi.Router) {
			r.Use(middleware.ModeCtx(logg))

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/", controllers.CatalogGet(catalogService, carts, logg))
				r.Put("/", controllers.CatalogReplace(catalogService, carts, logg))
				r.Post("/potions", controllers.CatalogUpsertPotion(catalogService, carts, logg))
				r.Delete("/potions/{id}", controllers.CatalogDeletePotion(catalogService, carts, logg))
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", controllers.SettingsGet(settingsService, logg))
				r.Put("/", controllers.SettingsSave(settingsService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(catalogService, carts, logg))
				r.Put("/items", controllers.CartSetLine(catalogService, carts, logg))
				r.Post("/items/{id}/adjust", controllers.CartAdjustLine(catalogService, carts, logg))
				r.Delete("/", controllers.CartClear(catalogService, carts, logg))
			})

			r.Route("/dispatch", func(r chi.Router) {
				r.Post("/", controllers.DispatchSend(dispatchService, logg))
				r.Get("/preview", controllers.DispatchPreview(dispatchService, logg))
			})
		})
	})

	return r
}
