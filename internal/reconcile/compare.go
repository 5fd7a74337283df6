// Package reconcile joins the summary report's subtotals ("Sistema") with the
// totals computed from the transaction export ("Bin").
package reconcile

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/example/conciliacao/internal/category"
)

// Record compares one category. Difference is System - Bin.
type Record struct {
	Category   category.Category
	System     decimal.Decimal
	Bin        decimal.Decimal
	Difference decimal.Decimal
}

// Matched reports whether both sides agree to the cent.
func (r Record) Matched() bool {
	return r.Difference.IsZero()
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category   category.Category `json:"category"`
		System     decimal.Decimal   `json:"system"`
		Bin        decimal.Decimal   `json:"bin"`
		Difference decimal.Decimal   `json:"difference"`
		Matched    bool              `json:"matched"`
	}{r.Category, r.System, r.Bin, r.Difference, r.Matched()})
}

// Compare produces one record per category of system, in its order. A
// category missing from bin counts as zero; categories only in bin are not
// reported.
func Compare(system, bin *category.Totals) []Record {
	records := make([]Record, 0, system.Len())
	for _, c := range system.Categories() {
		s := system.Get(c)
		b := bin.Get(c)
		records = append(records, Record{
			Category:   c,
			System:     s,
			Bin:        b,
			Difference: s.Sub(b),
		})
	}
	return records
}
