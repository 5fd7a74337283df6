package category

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Totals is an insertion ordered map from Category to amount.
// The zero value is ready to use.
type Totals struct {
	order  []Category
	values map[Category]decimal.Decimal
}

// NewTotals returns Totals with every category in cats set to zero.
func NewTotals(cats ...Category) *Totals {
	t := &Totals{}
	for _, c := range cats {
		t.Set(c, decimal.Zero)
	}
	return t
}

// Set stores v under c. A new category is appended to the order.
func (t *Totals) Set(c Category, v decimal.Decimal) {
	if t.values == nil {
		t.values = make(map[Category]decimal.Decimal)
	}
	if _, ok := t.values[c]; !ok {
		t.order = append(t.order, c)
	}
	t.values[c] = v
}

// Add adds v to the amount stored under c.
func (t *Totals) Add(c Category, v decimal.Decimal) {
	t.Set(c, t.Get(c).Add(v))
}

// Get returns the amount for c, zero when absent.
func (t *Totals) Get(c Category) decimal.Decimal {
	if v, ok := t.Lookup(c); ok {
		return v
	}
	return decimal.Zero
}

// Lookup returns the amount for c and whether c is present.
func (t *Totals) Lookup(c Category) (decimal.Decimal, bool) {
	v, ok := t.values[c]
	return v, ok
}

// Has reports whether c is present.
func (t *Totals) Has(c Category) bool {
	_, ok := t.values[c]
	return ok
}

// Delete removes c.
func (t *Totals) Delete(c Category) {
	if !t.Has(c) {
		return
	}
	delete(t.values, c)
	for i, o := range t.order {
		if o == c {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Categories returns the present categories in insertion order.
func (t *Totals) Categories() []Category {
	out := make([]Category, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of categories present.
func (t *Totals) Len() int {
	return len(t.order)
}

type totalEntry struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MarshalJSON encodes the totals as an ordered list.
func (t *Totals) MarshalJSON() ([]byte, error) {
	out := make([]totalEntry, 0, len(t.order))
	for _, c := range t.order {
		out = append(out, totalEntry{Category: c, Amount: t.values[c]})
	}
	return json.Marshal(out)
}
