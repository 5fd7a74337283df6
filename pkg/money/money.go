// Package money parses and formats the monetary values found in card
// settlement reports.
//
// Report values use the Brazilian convention ("R$ 1.234,56": "." groups
// thousands and "," separates cents) or are bare numbers without separators.
// Values are carried as decimal.Decimal so sums never lose cent precision.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is wrapped by every ParseError.
var ErrInvalidAmount = errors.New("invalid monetary amount")

// ParseError reports a token that is not a monetary value once cleaned.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil || e.Err == ErrInvalidAmount {
		return fmt.Sprintf("%s %q", ErrInvalidAmount, e.Input)
	}
	return fmt.Sprintf("%s %q: %v", ErrInvalidAmount, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrInvalidAmount.
func (e *ParseError) Is(target error) bool { return target == ErrInvalidAmount }

const realSymbol = "R$"

var numeric = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

// Parse converts a locale formatted token into a decimal.
//
// Examples:
//
//	Parse("R$ 1.234,56") -> 1234.56
//	Parse("0,00")        -> 0
//	Parse("1500")        -> 1500
//	Parse("")            -> *ParseError
func Parse(s string) (decimal.Decimal, error) {
	cleaned := clean(s)
	if !numeric.MatchString(cleaned) {
		return decimal.Zero, &ParseError{Input: s, Err: ErrInvalidAmount}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &ParseError{Input: s, Err: err}
	}
	return d, nil
}

func clean(s string) string {
	s = strings.ReplaceAll(s, realSymbol, "")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
			continue
		case r == '.':
			// thousands separator
			continue
		case r == ',':
			b.WriteRune('.')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseValue accepts a cell value of any type. Numbers pass through
// unchanged, strings go through Parse.
func ParseValue(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case string:
		return Parse(n)
	case nil:
		return decimal.Zero, &ParseError{Input: "", Err: ErrInvalidAmount}
	default:
		return decimal.Zero, &ParseError{Input: fmt.Sprint(v), Err: fmt.Errorf("unsupported value type %T", v)}
	}
}

// Format renders d with two decimals and "," thousands grouping, e.g. "1,234.56".
func Format(d decimal.Decimal) string {
	return humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}
