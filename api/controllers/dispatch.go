package controllers

import (
	"net/http"

	"github.com/drcalc/drcalc-backend/api/middleware"
	"github.com/drcalc/drcalc-backend/api/responses"
	"github.com/drcalc/drcalc-backend/api/validators"
	"github.com/drcalc/drcalc-backend/internal/dispatch"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
)

type dispatchPayload struct {
	Operator string `json:"operator"`
}

// DispatchSend delivers the mode's cart to its webhook endpoint.
func DispatchSend(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		var payload dispatchPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := svc.Dispatch(ctx, middleware.ModeFromContext(ctx), payload.Operator)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// DispatchPreview renders the envelopes without sending them.
func DispatchPreview(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		envelopes, err := svc.Preview(ctx, middleware.ModeFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"envelopes": envelopes})
	}
}
