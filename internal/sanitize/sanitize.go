// Package sanitize coerces loosely-typed persisted or imported records
// into valid domain documents. It is the only layer that touches
// unvalidated data: everything behind it assumes clean documents.
//
// The policy is tolerant read, strict filter. Malformed wrappers degrade
// to defaults, individual records are coerced field by field, and records
// that still fail the minimal validity rules are dropped rather than
// repaired further. No input shape may cause a panic.
package sanitize

import (
	"strconv"
	"strings"

	"github.com/drcalc/drcalc-backend/pkg/types"
	"github.com/google/uuid"
)

// NormalizeName collapses internal whitespace runs to single spaces and
// trims the ends.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// SafeInt coerces an arbitrary JSON value into an integer, falling back
// when the value is absent or non-numeric.
func SafeInt(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		trimmed := strings.TrimSpace(n)
		if i, err := strconv.Atoi(trimmed); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return int(f)
		}
	}
	return fallback
}

// Catalog coerces a decoded JSON document into a valid catalog. Potions
// without a usable name or a positive price are dropped; missing ids are
// regenerated; duplicate ids keep their first occurrence.
func Catalog(raw any) types.Catalog {
	out := types.DefaultCatalog()

	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}

	if cur := strings.TrimSpace(stringOf(m["currency"])); cur != "" {
		out.Currency = cur
	}

	items, ok := m["potions"].([]any)
	if !ok {
		return out
	}

	seen := map[string]struct{}{}
	for _, it := range items {
		pm, ok := it.(map[string]any)
		if !ok {
			continue
		}
		p := cleanPotion(types.Potion{
			ID:    stringOf(pm["id"]),
			Name:  stringOf(pm["name"]),
			Price: SafeInt(pm["price"], 0),
			Image: stringOf(pm["image"]),
		})
		if p.Name == "" || p.Price <= 0 {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out.Potions = append(out.Potions, p)
	}

	return out
}

// CatalogDoc applies the same normalization and filtering to an already
// typed catalog, e.g. a whole-catalog replace arriving over the API.
func CatalogDoc(doc types.Catalog) types.Catalog {
	out := types.DefaultCatalog()
	if cur := strings.TrimSpace(doc.Currency); cur != "" {
		out.Currency = cur
	}

	seen := map[string]struct{}{}
	for _, p := range doc.Potions {
		p = cleanPotion(p)
		if p.Name == "" || p.Price <= 0 {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out.Potions = append(out.Potions, p)
	}
	return out
}

// Recipes coerces a decoded JSON document into a valid recipe book.
// Recipes without a usable name are dropped.
func Recipes(raw any) types.RecipeBook {
	out := types.DefaultRecipeBook()

	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}
	items, ok := m["recipes"].([]any)
	if !ok {
		return out
	}

	seen := map[string]struct{}{}
	for _, it := range items {
		rm, ok := it.(map[string]any)
		if !ok {
			continue
		}
		r := cleanRecipe(types.Recipe{
			ID:          stringOf(rm["id"]),
			Name:        stringOf(rm["name"]),
			Image:       stringOf(rm["image"]),
			Ingredients: stringOf(rm["ingredients"]),
			Procedure:   stringOf(rm["procedure"]),
		})
		if r.Name == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out.Recipes = append(out.Recipes, r)
	}

	return out
}

// RecipeBookDoc applies the same normalization and filtering to an
// already typed recipe book.
func RecipeBookDoc(doc types.RecipeBook) types.RecipeBook {
	out := types.DefaultRecipeBook()
	seen := map[string]struct{}{}
	for _, r := range doc.Recipes {
		r = cleanRecipe(r)
		if r.Name == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out.Recipes = append(out.Recipes, r)
	}
	return out
}

// Settings coerces a decoded JSON document into settings. Fields are
// stringified only; validation happens at send/save time.
func Settings(raw any) types.Settings {
	out := types.DefaultSettings()
	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}
	out.WebhookURL = stringOf(m["webhook_url"])
	out.LastActor = stringOf(m["last_actor"])
	return out
}

func cleanPotion(p types.Potion) types.Potion {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Name = NormalizeName(p.Name)
	p.Image = strings.TrimSpace(p.Image)
	return p
}

func cleanRecipe(r types.Recipe) types.Recipe {
	r.ID = strings.TrimSpace(r.ID)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Name = NormalizeName(r.Name)
	r.Image = strings.TrimSpace(r.Image)
	return r
}

func stringOf(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}
