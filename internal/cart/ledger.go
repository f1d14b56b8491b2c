// Package cart tracks the in-memory quantity ledger backing a dispatch
// session. Cart state is deliberately not persisted: it resets when a
// mode is entered, when a catalog is replaced, and after a successful
// dispatch.
package cart

import (
	"sort"
	"sync"

	"github.com/drcalc/drcalc-backend/pkg/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MaxQuantity caps a single line's quantity.
const MaxQuantity = 9999

// LineItem is one resolved cart entry priced against a catalog.
type LineItem struct {
	Potion   types.Potion `json:"potion"`
	Quantity int          `json:"quantity"`
	Subtotal int          `json:"subtotal"`
}

// Summary aggregates a cart priced against a catalog. Entries whose
// potion is no longer in the catalog are skipped, not counted.
type Summary struct {
	Entries  int    `json:"entries"`
	Units    int    `json:"units"`
	Total    int    `json:"total"`
	Currency string `json:"currency"`
}

// Ledger is a concurrency-safe map of potion id to quantity.
type Ledger struct {
	mu    sync.Mutex
	items map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{items: make(map[string]int)}
}

// SetQuantity pins a line to qty. Values above MaxQuantity clamp down;
// zero or negative values remove the line.
func (l *Ledger) SetQuantity(id string, qty int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store(id, qty)
}

// Adjust shifts a line by delta, with the same clamping as SetQuantity.
// The read and write happen under one lock so concurrent adjusts on the
// same line never lose an update.
func (l *Ledger) Adjust(id string, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store(id, l.items[id]+delta)
}

// store applies the clamp-or-remove rule. Callers hold l.mu.
func (l *Ledger) store(id string, qty int) {
	if qty <= 0 {
		delete(l.items, id)
		return
	}
	if qty > MaxQuantity {
		qty = MaxQuantity
	}
	l.items[id] = qty
}

// Quantity returns the current quantity for id, zero when absent.
func (l *Ledger) Quantity(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items[id]
}

// Quantities returns a copy of the ledger's contents.
func (l *Ledger) Quantities() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.items))
	for id, qty := range l.items {
		out[id] = qty
	}
	return out
}

// Len returns the number of distinct lines.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = make(map[string]int)
}

// Reconcile drops every line whose id is not in valid. Called after a
// catalog reload so the cart never references deleted potions.
func (l *Ledger) Reconcile(valid map[string]struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id := range l.items {
		if _, ok := valid[id]; !ok {
			delete(l.items, id)
		}
	}
}

// LineItems resolves the ledger against a catalog, ordered by potion
// name. Entries that no longer resolve are skipped.
func (l *Ledger) LineItems(catalog types.Catalog) []LineItem {
	quantities := l.Quantities()

	out := make([]LineItem, 0, len(quantities))
	for id, qty := range quantities {
		p, ok := catalog.PotionByID(id)
		if !ok {
			continue
		}
		out = append(out, LineItem{Potion: p, Quantity: qty, Subtotal: p.Price * qty})
	}

	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.Slice(out, func(i, j int) bool {
		if c := coll.CompareString(out[i].Potion.Name, out[j].Potion.Name); c != 0 {
			return c < 0
		}
		return out[i].Potion.ID < out[j].Potion.ID
	})
	return out
}

// Summarize totals the ledger against a catalog.
func (l *Ledger) Summarize(catalog types.Catalog) Summary {
	sum := Summary{Currency: catalog.CurrencyOrDefault()}
	for _, item := range l.LineItems(catalog) {
		sum.Entries++
		sum.Units += item.Quantity
		sum.Total += item.Subtotal
	}
	return sum
}
