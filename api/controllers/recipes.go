package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/drcalc/drcalc-backend/api/responses"
	"github.com/drcalc/drcalc-backend/api/validators"
	"github.com/drcalc/drcalc-backend/internal/recipes"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"github.com/drcalc/drcalc-backend/pkg/types"
)

type recipePayload struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Image       string `json:"image"`
	Ingredients string `json:"ingredients"`
	Procedure   string `json:"procedure"`
}

type recipeBookPayload struct {
	Recipes []types.Recipe `json:"recipes"`
}

func RecipesGet(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		doc, err := svc.Load(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func RecipesReplace(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		var payload recipeBookPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		doc, err := svc.Replace(ctx, types.RecipeBook{Recipes: payload.Recipes})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func RecipesUpsert(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		var payload recipePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		doc, err := svc.UpsertRecipe(ctx, types.Recipe{
			ID:          payload.ID,
			Name:        payload.Name,
			Image:       payload.Image,
			Ingredients: payload.Ingredients,
			Procedure:   payload.Procedure,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func RecipesDelete(svc recipes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recipe service unavailable"))
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "recipe id is required"))
			return
		}

		doc, err := svc.DeleteRecipe(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}
