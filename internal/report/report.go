// Package report renders a reconciliation report for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/example/conciliacao/internal/reconcile"
	"github.com/example/conciliacao/pkg/money"
)

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, r *reconcile.Report) error
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// New returns the renderer for format. color only applies to text output.
func New(format, color string, out *os.File) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &Text{Color: UseColor(color, out)}, nil
	case FormatJSON:
		return &JSON{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// UseColor resolves a color mode for out.
func UseColor(mode string, out *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if out == nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
}

const (
	ansiMismatch = "\x1b[1;31m"
	ansiReset    = "\x1b[0m"
)

// Text renders one line per category.
type Text struct {
	Color bool
}

func (t *Text) Render(w io.Writer, r *reconcile.Report) error {
	for _, rec := range r.Records {
		if _, err := fmt.Fprintln(w, t.line(rec)); err != nil {
			return err
		}
	}
	if len(r.Records) == 0 {
		if _, err := fmt.Fprintln(w, "Nenhuma categoria encontrada na planilha."); err != nil {
			return err
		}
	}
	for _, warn := range r.Warnings {
		if _, err := fmt.Fprintf(w, "Aviso: %s\n", warn); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d categoria(s), %d divergente(s)\n", len(r.Records), r.Mismatches())
	return err
}

func (t *Text) line(rec reconcile.Record) string {
	diff := money.Format(rec.Difference)
	if !rec.Matched() && rec.Difference.Round(2).IsZero() {
		// sub-cent difference, e.g. float noise in a spreadsheet cell
		diff = rec.Difference.String()
	}
	line := fmt.Sprintf("%s: Sistema = %s | Bin = %s | Diferença = %s",
		rec.Category, money.Format(rec.System), money.Format(rec.Bin), diff)
	if rec.Matched() {
		return line
	}
	if t.Color {
		return ansiMismatch + line + ansiReset
	}
	return "! " + line
}

// JSON renders the whole report.
type JSON struct{}

func (JSON) Render(w io.Writer, r *reconcile.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*reconcile.Report
		Mismatches int `json:"mismatches"`
	}{r, r.Mismatches()})
}
