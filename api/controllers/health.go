package controllers

import (
	"net/http"

	"github.com/drcalc/drcalc-backend/api/responses"
	"github.com/drcalc/drcalc-backend/pkg/config"
	"github.com/drcalc/drcalc-backend/pkg/docstore"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-DrCalc-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, store docstore.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-DrCalc-Env", cfg.App.Env)

		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "document store unavailable"))
			return
		}
		if err := store.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "document store not ready"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
