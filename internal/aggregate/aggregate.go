// Package aggregate loads the acquirer's transaction export and sums settled
// gross amounts per category.
package aggregate

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/example/conciliacao/internal/category"
	"github.com/example/conciliacao/pkg/money"
	"github.com/example/conciliacao/pkg/transaction"
)

// Export column headers.
const (
	ColumnBrand       = "Bandeira"
	ColumnProduct     = "Produto"
	ColumnStatus      = "Status"
	ColumnGrossAmount = "Valor bruto"
)

const (
	DefaultDelimiter = ';'
	DefaultEncoding  = "ISO-8859-1"
)

// DefaultExcludedStatuses are the statuses of money that was never settled.
var DefaultExcludedStatuses = []string{"Recusada", "Estornada", "Refused", "Reversed"}

var requiredColumns = []string{ColumnBrand, ColumnProduct, ColumnStatus, ColumnGrossAmount}

// Aggregator turns a transaction export into per-category totals.
// The zero value uses the defaults above.
type Aggregator struct {
	Delimiter          rune
	Encoding           string
	ExcludedStatuses   []string
	SkipInvalidAmounts bool
	Logger             zerolog.Logger
}

// Result is the outcome of one aggregation.
type Result struct {
	Totals   *category.Totals
	Loaded   int
	Settled  int
	Skipped  int
	Unmapped int
}

// Run loads the export from r and aggregates it. Nothing is returned on error.
func (a *Aggregator) Run(r io.Reader, source string) (*Result, error) {
	list, err := a.Load(r, source)
	if err != nil {
		return nil, err
	}
	return a.Aggregate(list), nil
}

// Load reads the whole export and parses every row's gross amount.
func (a *Aggregator) Load(r io.Reader, source string) (*transaction.TransactionList, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &InputFormatError{Source: source, Reason: "read failed", Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &InputFormatError{Source: source, Reason: "file is empty"}
	}

	text, err := a.decode(raw)
	if err != nil {
		return nil, &InputFormatError{Source: source, Reason: "decode failed", Err: err}
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = a.delimiter()
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &InputFormatError{Source: source, Reason: "malformed delimited text", Err: err}
	}
	if len(records) == 0 {
		return nil, &InputFormatError{Source: source, Reason: "file is empty"}
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &InputFormatError{
			Source: source,
			Reason: fmt.Sprintf("missing column(s) %s (check delimiter %q)", strings.Join(missing, ", "), a.delimiter()),
		}
	}

	list := &transaction.TransactionList{Source: source, LoadedAt: time.Now()}
	for i, record := range records[1:] {
		line := i + 2
		amount, err := money.Parse(record[columns[ColumnGrossAmount]])
		if err != nil {
			if !a.SkipInvalidAmounts {
				return nil, fmt.Errorf("%s line %d: %w", source, line, err)
			}
			a.Logger.Warn().Str("file", source).Int("line", line).Err(err).Msg("Skipping row with invalid gross amount")
			list.Skipped++
			continue
		}

		list.AddTransaction(transaction.Transaction{
			Line:        line,
			Brand:       record[columns[ColumnBrand]],
			Product:     record[columns[ColumnProduct]],
			Status:      record[columns[ColumnStatus]],
			GrossAmount: amount,
		})
	}

	a.Logger.Debug().Str("file", source).Int("rows", list.Total).Int("skipped", list.Skipped).Msg("Loaded transaction export")
	return list, nil
}

// Aggregate sums settled rows per category. Every category of the table is
// present in the result, zero when no row matched. International variants are
// folded into their parent category.
func (a *Aggregator) Aggregate(list *transaction.TransactionList) *Result {
	settled := list.Settled(a.excludedStatuses())

	totals := category.NewTotals(category.Categories()...)
	mapped := 0
	for _, e := range category.Table() {
		totals.Set(e.Category, settled.Sum(e.Brand, e.Product))
		mapped += count(settled, e.Brand, e.Product)
		if e.HasInternational() {
			totals.Set(e.Sibling(), settled.Sum(e.Brand, e.International))
			mapped += count(settled, e.Brand, e.International)
		}
	}
	mergeInternational(totals)

	res := &Result{
		Totals:   totals,
		Loaded:   list.Total,
		Settled:  settled.Total,
		Skipped:  list.Skipped,
		Unmapped: settled.Total - mapped,
	}
	a.Logger.Info().
		Int("loaded", res.Loaded).
		Int("settled", res.Settled).
		Int("unmapped", res.Unmapped).
		Msg("Aggregated transactions")
	return res
}

func mergeInternational(totals *category.Totals) {
	for _, e := range category.Table() {
		if !e.HasInternational() || !totals.Has(e.Sibling()) {
			continue
		}
		totals.Add(e.Category, totals.Get(e.Sibling()))
		totals.Delete(e.Sibling())
	}
}

func count(list *transaction.TransactionList, brand, product string) int {
	n := 0
	for _, t := range list.Transactions {
		if t.Brand == brand && t.Product == product {
			n++
		}
	}
	return n
}

func (a *Aggregator) delimiter() rune {
	if a.Delimiter == 0 {
		return DefaultDelimiter
	}
	return a.Delimiter
}

func (a *Aggregator) excludedStatuses() []string {
	if a.ExcludedStatuses == nil {
		return DefaultExcludedStatuses
	}
	return a.ExcludedStatuses
}

var errLooksUTF8 = errors.New("input is UTF-8 encoded but a single-byte encoding is configured")

// decode converts raw to UTF-8 using the configured encoding. A wrong
// encoding corrupts accented brand and product labels silently, so the
// mismatches that can be detected are errors.
func (a *Aggregator) decode(raw []byte) (string, error) {
	name := a.Encoding
	if name == "" {
		name = DefaultEncoding
	}

	if isUTF8Name(name) {
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("input is not valid UTF-8")
		}
		return strings.TrimPrefix(string(raw), "\ufeff"), nil
	}

	enc, err := lookupEncoding(name)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) && !isASCII(raw) {
		return "", errLooksUTF8
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return string(decoded), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

func isUTF8Name(name string) bool {
	return strings.EqualFold(strings.ReplaceAll(name, "-", ""), "utf8")
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
