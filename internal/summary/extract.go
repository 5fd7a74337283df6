// Package summary reads the per-category subtotals out of the summary
// spreadsheet. The report has no fixed layout: each category's block is
// found by its keyword, and its subtotal is on the first marker row below.
package summary

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/conciliacao/internal/category"
	"github.com/example/conciliacao/pkg/money"
)

const (
	DefaultMarker = "SUB-TOTAL TIPO:"
	// DefaultColumn is column T.
	DefaultColumn = 20
)

// Extractor locates subtotals in a Grid.
// The zero value uses DefaultMarker and DefaultColumn and skips
// unparseable subtotals with a warning.
type Extractor struct {
	Marker string
	Column int // 1-based, 20 is column T
	// Strict fails the extraction on an unparseable subtotal instead of
	// omitting the category.
	Strict bool
	Logger zerolog.Logger
}

// Warning is a category that was found but whose subtotal was unusable.
type Warning struct {
	Category category.Category `json:"category"`
	Row      int               `json:"row"`
	Message  string            `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (row %d): %s", w.Category, w.Row, w.Message)
}

// Result holds the extracted subtotals in category table order. Categories
// whose keyword or marker was not found are listed in Misses and are absent
// from Totals.
type Result struct {
	Totals   *category.Totals
	Warnings []Warning
	Misses   []category.Category
}

// Extract reads the subtotal of every category that has a keyword.
func (x *Extractor) Extract(g Grid) (*Result, error) {
	rows := g.Texts()
	marker := ContainsFold(x.marker())
	col := x.column()

	res := &Result{Totals: &category.Totals{}}
	for _, e := range category.Table() {
		if e.Keyword == "" {
			continue
		}
		log := x.Logger.With().Str("category", string(e.Category)).Str("keyword", e.Keyword).Logger()

		anchor, ok := FindRow(rows, 0, ContainsFold(e.Keyword))
		if !ok {
			log.Debug().Msg("Keyword not found")
			res.Misses = append(res.Misses, e.Category)
			continue
		}
		at, ok := FindRow(rows, anchor+1, marker)
		if !ok {
			log.Debug().Int("row", anchor+1).Msg("No subtotal marker below keyword")
			res.Misses = append(res.Misses, e.Category)
			continue
		}

		value := g.Cell(at, col-1)
		amount, err := money.ParseValue(value)
		if err != nil {
			verr := &ValueError{Category: e.Category, Row: at + 1, Column: col, Value: value, Err: err}
			if x.Strict {
				return nil, verr
			}
			log.Warn().Int("row", at+1).Interface("value", value).Err(err).Msg("Skipping unparseable subtotal")
			res.Warnings = append(res.Warnings, Warning{Category: e.Category, Row: at + 1, Message: err.Error()})
			continue
		}

		log.Debug().Int("row", at+1).Str("amount", amount.String()).Msg("Subtotal found")
		res.Totals.Set(e.Category, amount)
	}
	return res, nil
}

func (x *Extractor) marker() string {
	if x.Marker == "" {
		return DefaultMarker
	}
	return x.Marker
}

func (x *Extractor) column() int {
	if x.Column <= 0 {
		return DefaultColumn
	}
	return x.Column
}
