package summary

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// Grid is a sheet as rows of cells. A cell holds a string, a float64 or nil
// when empty. Rows may have different lengths.
type Grid [][]any

// Cell returns the value at (row, col), nil when out of range.
func (g Grid) Cell(row, col int) any {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return nil
	}
	return g[row][col]
}

// Texts renders every cell as text, once, for searching.
func (g Grid) Texts() [][]string {
	out := make([][]string, len(g))
	for i, row := range g {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cast.ToString(v)
		}
		out[i] = cells
	}
	return out
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatXLSX
	formatXLS
)

var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

func detectFormat(data []byte, name string) fileFormat {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return formatXLSX
	case bytes.HasPrefix(data, ole2Magic):
		return formatXLS
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return formatXLSX
	case ".xls":
		return formatXLS
	}
	return formatUnknown
}

// LoadGrid reads one sheet of a spreadsheet held in data. The format is
// taken from the content, then from the name's extension. An empty sheet
// selects the first sheet.
func LoadGrid(data []byte, name, sheet string) (Grid, error) {
	switch detectFormat(data, name) {
	case formatXLSX:
		return loadXLSX(data, name, sheet)
	case formatXLS:
		return loadXLS(data, name, sheet)
	}
	return nil, &FormatError{Source: name, Reason: "not an .xls or .xlsx spreadsheet"}
}

func loadXLSX(data []byte, name, sheet string) (Grid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &FormatError{Source: name, Reason: "cannot open workbook", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &FormatError{Source: name, Reason: "workbook has no sheets"}
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, &FormatError{Source: name, Reason: fmt.Sprintf("sheet %q not found", sheet)}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &FormatError{Source: name, Reason: fmt.Sprintf("cannot read sheet %q", sheet), Err: err}
	}

	grid := make(Grid, len(rows))
	for r, row := range rows {
		cells := make([]any, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cells[c] = raw
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			typ, err := f.GetCellType(sheet, ref)
			if err != nil || typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
				continue
			}
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				cells[c] = n
			}
		}
		grid[r] = cells
	}
	return grid, nil
}
