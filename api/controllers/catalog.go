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
	"github.com/drcalc/drcalc-backend/pkg/types"
)

type potionPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name" validate:"required"`
	Price int    `json:"price" validate:"required,gt=0"`
	Image string `json:"image"`
}

type catalogPayload struct {
	Currency string         `json:"currency"`
	Potions  []types.Potion `json:"potions"`
}

// CatalogGet returns the mode's catalog. Reading also reconciles the
// mode's cart so stale lines disappear as soon as the catalog does.
func CatalogGet(svc catalog.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		mode := middleware.ModeFromContext(ctx)
		doc, err := svc.Load(ctx, mode)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if carts != nil {
			carts.Ledger(mode).Reconcile(doc.IDSet())
		}
		responses.WriteSuccess(w, doc)
	}
}

// CatalogReplace swaps the whole catalog document and resets the mode's
// cart, since quantities priced against the old catalog are meaningless.
func CatalogReplace(svc catalog.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload catalogPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		mode := middleware.ModeFromContext(ctx)
		doc, err := svc.Replace(ctx, mode, types.Catalog{Currency: payload.Currency, Potions: payload.Potions})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if carts != nil {
			carts.Reset(mode)
		}
		responses.WriteSuccess(w, doc)
	}
}

// CatalogUpsertPotion creates or updates a single potion.
func CatalogUpsertPotion(svc catalog.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload potionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		mode := middleware.ModeFromContext(ctx)
		doc, err := svc.UpsertPotion(ctx, mode, types.Potion{
			ID:    payload.ID,
			Name:  payload.Name,
			Price: payload.Price,
			Image: payload.Image,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if carts != nil {
			carts.Ledger(mode).Reconcile(doc.IDSet())
		}
		responses.WriteSuccess(w, doc)
	}
}

// CatalogDeletePotion removes one potion and drops its cart line.
func CatalogDeletePotion(svc catalog.Service, carts *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "potion id is required"))
			return
		}

		mode := middleware.ModeFromContext(ctx)
		doc, err := svc.DeletePotion(ctx, mode, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if carts != nil {
			carts.Ledger(mode).Reconcile(doc.IDSet())
		}
		responses.WriteSuccess(w, doc)
	}
}
