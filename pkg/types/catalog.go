package types

// DefaultCurrency is applied whenever a catalog carries no currency symbol.
const DefaultCurrency = "€"

// Potion is a single priced catalog entry. Image holds a free-text
// name/path reference only; the backend never loads image bytes.
type Potion struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
	Image string `json:"image"`
}

// Catalog is the priced potion set for one operation mode. The buy and
// sell catalogs are fully independent documents.
type Catalog struct {
	Currency string   `json:"currency"`
	Potions  []Potion `json:"potions"`
}

// DefaultCatalog returns the document written when a catalog slot is
// absent or unparsable.
func DefaultCatalog() Catalog {
	return Catalog{Currency: DefaultCurrency, Potions: []Potion{}}
}

// CurrencyOrDefault returns the catalog currency, falling back to the
// default symbol when unset.
func (c Catalog) CurrencyOrDefault() string {
	if c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// PotionByID looks up a potion by id.
func (c Catalog) PotionByID(id string) (Potion, bool) {
	for _, p := range c.Potions {
		if p.ID == id {
			return p, true
		}
	}
	return Potion{}, false
}

// IDSet returns the set of potion ids present in the catalog.
func (c Catalog) IDSet() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.Potions))
	for _, p := range c.Potions {
		ids[p.ID] = struct{}{}
	}
	return ids
}
