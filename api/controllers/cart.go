package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/drcalc/drcalc-backend/api/middleware"
	"github.com/drcalc/drcalc-backend/api/responses"
	"github.com/drcalc/drcalc-backend/api/validators"
	"github.com/drcalc/drcalc-backend/internal/cart"
	"github.com/drcalc/drcalc-backend/internal/catalog"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
)

type cartLinePayload struct {
	PotionID string `json:"potion_id" validate:"required"`
	Quantity int    `json:"quantity"`
}

type cartAdjustPayload struct {
	// Delta may be zero; a zero adjustment is a no-op, not an error.
	Delta int `json:"delta"`
}

type cartView struct {
	Summary cart.Summary    `json:"summary"`
	Items   []cart.LineItem `json:"items"`
}

func viewCart(r *http.Request, svc catalog.Service, carts *cart.Manager) (cartView, error) {
	ctx := r.Context()
	mode := middleware.ModeFromContext(ctx)

	doc, err := svc.Load(ctx, mode)
	if err != nil {
		return cartView{}, err
	}

	ledger := carts.Ledger(mode)
	ledger.Reconcile(doc.IDSet())
	return cartView{Summary: ledger.Summarize(doc), Items: ledger.LineItems(doc)}, nil
}

// CartGet returns the mode's priced cart.
func CartGet(svc catalog.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || carts == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		view, err := viewCart(r, svc, carts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartSetLine pins one line to an absolute quantity. Unknown potions are
// refused; zero or negative quantities remove the line.
func CartSetLine(svc catalog.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || carts == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		var payload cartLinePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		mode := middleware.ModeFromContext(ctx)
		doc, err := svc.Load(ctx, mode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, ok := doc.PotionByID(payload.PotionID); !ok && payload.Quantity > 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "potion not found"))
			return
		}

		ledger := carts.Ledger(mode)
		ledger.SetQuantity(payload.PotionID, payload.Quantity)
		ledger.Reconcile(doc.IDSet())
		responses.WriteSuccess(w, cartView{Summary: ledger.Summarize(doc), Items: ledger.LineItems(doc)})
	}
}

// CartAdjustLine shifts one line by a signed delta.
func CartAdjustLine(svc catalog.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || carts == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "potion id is required"))
			return
		}

		var payload cartAdjustPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		mode := middleware.ModeFromContext(ctx)
		doc, err := svc.Load(ctx, mode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if _, ok := doc.PotionByID(id); !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "potion not found"))
			return
		}

		ledger := carts.Ledger(mode)
		ledger.Adjust(id, payload.Delta)
		ledger.Reconcile(doc.IDSet())
		responses.WriteSuccess(w, cartView{Summary: ledger.Summarize(doc), Items: ledger.LineItems(doc)})
	}
}

// CartClear empties the mode's cart.
func CartClear(svc catalog.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || carts == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		carts.Reset(middleware.ModeFromContext(ctx))
		view, err := viewCart(r, svc, carts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
