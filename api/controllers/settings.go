package controllers

import (
	"net/http"

	"github.com/drcalc/drcalc-backend/api/middleware"
	"github.com/drcalc/drcalc-backend/api/responses"
	"github.com/drcalc/drcalc-backend/api/validators"
	"github.com/drcalc/drcalc-backend/internal/settings"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"github.com/drcalc/drcalc-backend/pkg/types"
)

type settingsPayload struct {
	WebhookURL string `json:"webhook_url"`
	LastActor  string `json:"last_actor"`
}

func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		doc, err := svc.Load(ctx, middleware.ModeFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func SettingsSave(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}

		var payload settingsPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		doc, err := svc.Save(ctx, middleware.ModeFromContext(ctx), types.Settings{
			WebhookURL: payload.WebhookURL,
			LastActor:  payload.LastActor,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}
