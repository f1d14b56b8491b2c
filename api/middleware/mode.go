package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/drcalc/drcalc-backend/api/responses"
	"github.com/drcalc/drcalc-backend/pkg/enums"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
)

type modeCtxKey struct{}

// ModeCtx resolves the {mode} URL parameter and rejects anything that is
// not a known operation mode before the handler runs.
func ModeCtx(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			mode, err := enums.ParseOperationMode(chi.URLParam(r, "mode"))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid operation mode"))
				return
			}

			if logg != nil {
				ctx = logg.WithMode(ctx, mode.String())
			}
			ctx = context.WithValue(ctx, modeCtxKey{}, mode)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ModeFromContext returns the operation mode resolved by ModeCtx.
func ModeFromContext(ctx context.Context) enums.OperationMode {
	if mode, ok := ctx.Value(modeCtxKey{}).(enums.OperationMode); ok {
		return mode
	}
	return ""
}
