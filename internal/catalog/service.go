// Package catalog owns the two independent potion catalogs (buy and
// sell). All reads pass through the sanitizer and all writes persist the
// full re-validated document.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/drcalc/drcalc-backend/internal/sanitize"
	"github.com/drcalc/drcalc-backend/pkg/docstore"
	"github.com/drcalc/drcalc-backend/pkg/enums"
	pkgerrors "github.com/drcalc/drcalc-backend/pkg/errors"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"github.com/drcalc/drcalc-backend/pkg/types"
	"github.com/google/uuid"
)

// Service exposes catalog persistence operations per operation mode.
type Service interface {
	Load(ctx context.Context, mode enums.OperationMode) (types.Catalog, error)
	Replace(ctx context.Context, mode enums.OperationMode, doc types.Catalog) (types.Catalog, error)
	UpsertPotion(ctx context.Context, mode enums.OperationMode, potion types.Potion) (types.Catalog, error)
	DeletePotion(ctx context.Context, mode enums.OperationMode, id string) (types.Catalog, error)
}

type service struct {
	store *docstore.Store
	logg  *logger.Logger
}

// NewService builds a catalog service backed by the document store.
func NewService(store *docstore.Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("document store required")
	}
	return &service{store: store, logg: logg}, nil
}

// Load reads the mode's catalog, sanitizing whatever is stored. Corrupt
// or missing documents degrade to the default catalog, never to an error.
func (s *service) Load(ctx context.Context, mode enums.OperationMode) (types.Catalog, error) {
	if !mode.IsValid() {
		return types.Catalog{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid operation mode")
	}

	var raw any
	if err := s.store.Load(ctx, types.CatalogKey(mode), &raw, types.DefaultCatalog()); err != nil {
		return types.Catalog{}, err
	}
	return sanitize.Catalog(raw), nil
}

// Replace persists a whole new catalog document after sanitizing it.
func (s *service) Replace(ctx context.Context, mode enums.OperationMode, doc types.Catalog) (types.Catalog, error) {
	if !mode.IsValid() {
		return types.Catalog{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid operation mode")
	}

	cleaned := sanitize.CatalogDoc(doc)
	if err := s.store.Save(ctx, types.CatalogKey(mode), cleaned); err != nil {
		return types.Catalog{}, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithMode(ctx, mode.String()), "catalog replaced")
	}
	return cleaned, nil
}

// UpsertPotion validates and stores a single potion. Unlike the tolerant
// load path, an invalid potion here is refused and nothing is written.
func (s *service) UpsertPotion(ctx context.Context, mode enums.OperationMode, potion types.Potion) (types.Catalog, error) {
	if !mode.IsValid() {
		return types.Catalog{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid operation mode")
	}

	potion.Name = sanitize.NormalizeName(potion.Name)
	potion.Image = strings.TrimSpace(potion.Image)
	if potion.Name == "" {
		return types.Catalog{}, pkgerrors.New(pkgerrors.CodeValidation, "potion name is required")
	}
	if potion.Price <= 0 {
		return types.Catalog{}, pkgerrors.New(pkgerrors.CodeValidation, "potion price must be greater than zero")
	}

	current, err := s.Load(ctx, mode)
	if err != nil {
		return types.Catalog{}, err
	}

	if strings.TrimSpace(potion.ID) == "" {
		potion.ID = uuid.NewString()
		current.Potions = append(current.Potions, potion)
	} else {
		replaced := false
		for i := range current.Potions {
			if current.Potions[i].ID == potion.ID {
				current.Potions[i] = potion
				replaced = true
				break
			}
		}
		if !replaced {
			current.Potions = append(current.Potions, potion)
		}
	}

	if err := s.store.Save(ctx, types.CatalogKey(mode), current); err != nil {
		return types.Catalog{}, err
	}
	return current, nil
}

// DeletePotion removes one potion by id and persists the catalog.
func (s *service) DeletePotion(ctx context.Context, mode enums.OperationMode, id string) (types.Catalog, error) {
	if !mode.IsValid() {
		return types.Catalog{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid operation mode")
	}

	current, err := s.Load(ctx, mode)
	if err != nil {
		return types.Catalog{}, err
	}

	idx := -1
	for i := range current.Potions {
		if current.Potions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.Catalog{}, pkgerrors.New(pkgerrors.CodeNotFound, "potion not found")
	}

	current.Potions = append(current.Potions[:idx], current.Potions[idx+1:]...)
	if err := s.store.Save(ctx, types.CatalogKey(mode), current); err != nil {
		return types.Catalog{}, err
	}
	return current, nil
}
