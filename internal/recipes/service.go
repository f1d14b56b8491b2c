// Package recipes owns the shared recipe book. Recipes are not split by
// operation mode; both buy and sell views read the same document.
package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/drcalc/drcalc-backend/internal/sanitize"
	"github.com/drcalc/drcalc-backend/pkg/docstore"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"github.com/drcalc/drcalc-backend/pkg/types"
	"github.com/google/uuid"
)

// Service exposes recipe book persistence operations.
type Service interface {
	Load(ctx context.Context) (types.RecipeBook, error)
	Replace(ctx context.Context, doc types.RecipeBook) (types.RecipeBook, error)
	UpsertRecipe(ctx context.Context, recipe types.Recipe) (types.RecipeBook, error)
	DeleteRecipe(ctx context.Context, id string) (types.RecipeBook, error)
}

type service struct {
	store *docstore.Store
	logg  *logger.Logger
}

// NewService builds a recipe service backed by the document store.
func NewService(store *docstore.Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("document store required")
	}
	return &service{store: store, logg: logg}, nil
}

// Load reads the recipe book, sanitizing whatever is stored.
func (s *service) Load(ctx context.Context) (types.RecipeBook, error) {
	var raw any
	if err := s.store.Load(ctx, types.KeyRecipes, &raw, types.DefaultRecipeBook()); err != nil {
		return types.RecipeBook{}, err
	}
	return sanitize.Recipes(raw), nil
}

// Replace persists a whole new recipe book after sanitizing it.
func (s *service) Replace(ctx context.Context, doc types.RecipeBook) (types.RecipeBook, error) {
	cleaned := sanitize.RecipeBookDoc(doc)
	if err := s.store.Save(ctx, types.KeyRecipes, cleaned); err != nil {
		return types.RecipeBook{}, err
	}
	if s.logg != nil {
		s.logg.Info(ctx, "recipe book replaced")
	}
	return cleaned, nil
}

// UpsertRecipe validates and stores a single recipe. A recipe needs a
// name; everything else is optional free text.
func (s *service) UpsertRecipe(ctx context.Context, recipe types.Recipe) (types.RecipeBook, error) {
	recipe.Name = sanitize.NormalizeName(recipe.Name)
	recipe.Image = strings.TrimSpace(recipe.Image)
	if recipe.Name == "" {
		return types.RecipeBook{}, pkgerrors.New(pkgerrors.CodeValidation, "recipe name is required")
	}

	current, err := s.Load(ctx)
	if err != nil {
		return types.RecipeBook{}, err
	}

	if strings.TrimSpace(recipe.ID) == "" {
		recipe.ID = uuid.NewString()
		current.Recipes = append(current.Recipes, recipe)
	} else {
		replaced := false
		for i := range current.Recipes {
			if current.Recipes[i].ID == recipe.ID {
				current.Recipes[i] = recipe
				replaced = true
				break
			}
		}
		if !replaced {
			current.Recipes = append(current.Recipes, recipe)
		}
	}

	if err := s.store.Save(ctx, types.KeyRecipes, current); err != nil {
		return types.RecipeBook{}, err
	}
	return current, nil
}

// DeleteRecipe removes one recipe by id and persists the book.
func (s *service) DeleteRecipe(ctx context.Context, id string) (types.RecipeBook, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return types.RecipeBook{}, err
	}

	idx := -1
	for i := range current.Recipes {
		if current.Recipes[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.RecipeBook{}, pkgerrors.New(pkgerrors.CodeNotFound, "recipe not found")
	}

	current.Recipes = append(current.Recipes[:idx], current.Recipes[idx+1:]...)
	if err := s.store.Save(ctx, types.KeyRecipes, current); err != nil {
		return types.RecipeBook{}, err
	}
	return current, nil
}
