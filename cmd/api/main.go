package main

import (
	"context"
	"net/http"
	"os"

	"github.com/drcalc/drcalc-backend/api/routes"
	"github.com/drcalc/drcalc-backend/internal/cart"
	"github.com/drcalc/drcalc-backend/internal/catalog"
	"github.com/drcalc/drcalc-backend/internal/dispatch"
	"github.com/drcalc/drcalc-backend/internal/importer"
	"github.com/drcalc/drcalc-backend/internal/recipes"
	"github.com/drcalc/drcalc-backend/internal/settings"
	"github.com/drcalc/drcalc-backend/pkg/config"
	"github.com/drcalc/drcalc-backend/pkg/docstore"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"github.com/drcalc/drcalc-backend/pkg/metrics"
	"github.com/drcalc/drcalc-backend/pkg/migrate"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := docstore.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open document store", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing document store", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, client); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	store, err := docstore.NewStore(client, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create document store", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.SeedImport {
		imp, err := importer.New(store, cfg.Seed.Dir, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create seed importer", err)
			os.Exit(1)
		}
		if err := imp.Run(context.Background()); err != nil {
			logg.Error(context.Background(), "seed import finished with errors", err)
		}
	}

	catalogService, err := catalog.NewService(store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	recipeService, err := recipes.NewService(store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create recipe service", err)
		os.Exit(1)
	}
	settingsService, err := settings.NewService(store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	carts := cart.NewManager()
	sender := dispatch.NewSender(cfg.Dispatch, logg)
	dispatchService, err := dispatch.NewService(
		catalogService,
		settingsService,
		carts,
		sender,
		metrics.NewDispatchMetrics(registry),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatch service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg, logg, client,
			catalogService, recipeService, settingsService, dispatchService,
			carts, registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
