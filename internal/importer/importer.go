// Package importer bootstraps an empty store from seed JSON files. The
// import is strictly first-run: if any dataset already holds data, the
// whole import is skipped so user edits are never overwritten.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/drcalc/drcalc-backend/internal/sanitize"
	"github.com/drcalc/drcalc-backend/pkg/docstore"
	"github.com/drcalc/drcalc-backend/pkg/logger"
	"github.com/drcalc/drcalc-backend/pkg/types"
	"go.uber.org/multierr"
)

// seed maps one file in the seed directory to a store key and the
// sanitizer that shapes its content.
type seed struct {
	file  string
	key   string
	clean func(raw any) any
}

func seeds() []seed {
	return []seed{
		{"potions_buy.json", types.KeyPotionsBuy, func(raw any) any { return sanitize.Catalog(raw) }},
		{"potions_sell.json", types.KeyPotionsSell, func(raw any) any { return sanitize.Catalog(raw) }},
		{"recipes.json", types.KeyRecipes, func(raw any) any { return sanitize.Recipes(raw) }},
		{"settings_buy.json", types.KeySettingsBuy, func(raw any) any { return sanitize.Settings(raw) }},
		{"settings_sell.json", types.KeySettingsSell, func(raw any) any { return sanitize.Settings(raw) }},
	}
}

// Importer loads seed documents into the store on first run.
type Importer struct {
	store *docstore.Store
	dir   string
	logg  *logger.Logger
}

func New(store *docstore.Store, dir string, logg *logger.Logger) (*Importer, error) {
	if store == nil {
		return nil, fmt.Errorf("document store required")
	}
	return &Importer{store: store, dir: dir, logg: logg}, nil
}

// Run imports every present seed file, but only when all datasets are
// still empty. Missing seed files are skipped silently; unreadable or
// unparsable ones are reported together without stopping the rest.
func (i *Importer) Run(ctx context.Context) error {
	for _, s := range seeds() {
		_, ok, err := i.store.Get(ctx, s.key)
		if err != nil {
			return err
		}
		if ok {
			if i.logg != nil {
				i.logg.Debug(ctx, "store already populated, seed import skipped")
			}
			return nil
		}
	}

	var errs error
	imported := 0
	for _, s := range seeds() {
		ok, err := i.importOne(ctx, s)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", s.file, err))
			continue
		}
		if ok {
			imported++
		}
	}

	if i.logg != nil && imported > 0 {
		i.logg.Info(ctx, fmt.Sprintf("seed import loaded %d dataset(s)", imported))
	}
	return errs
}

func (i *Importer) importOne(ctx context.Context, s seed) (bool, error) {
	body, err := os.ReadFile(filepath.Join(i.dir, s.file))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return false, err
	}

	if err := i.store.Save(ctx, s.key, s.clean(raw)); err != nil {
		return false, err
	}
	return true, nil
}
