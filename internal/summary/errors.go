package summary

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/conciliacao/internal/category"
)

var ErrInputFormat = errors.New("invalid spreadsheet")

// FormatError reports a summary file that cannot be read as a spreadsheet
// or lacks the requested sheet.
type FormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Source, ErrInputFormat, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, ErrInputFormat, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func (e *FormatError) Is(target error) bool {
	return target == ErrInputFormat
}

// ValueError reports a subtotal cell that does not hold an amount.
type ValueError struct {
	Category category.Category
	Row      int // 1-based spreadsheet row
	Column   int // 1-based
	Value    any
	Err      error
}

func (e *ValueError) Error() string {
	cell, err := excelize.CoordinatesToCellName(e.Column, e.Row)
	if err != nil {
		cell = fmt.Sprintf("row %d column %d", e.Row, e.Column)
	}
	if entry, ok := category.Lookup(e.Category); ok && entry.Keyword != "" {
		return fmt.Sprintf("%s (%q): subtotal at %s (%v): %v", e.Category, entry.Keyword, cell, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: subtotal at %s (%v): %v", e.Category, cell, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
