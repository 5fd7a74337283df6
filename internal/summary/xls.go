package summary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf16"

	"github.com/extrame/ole2"
	"github.com/extrame/xls"
)

// BIFF record identifiers.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recRString    = 0x00D6
	recLabelSST   = 0x00FD
	recNumber     = 0x0203
	recLabel      = 0x0204
	recString     = 0x0207
	recRK         = 0x027E
	recBOF        = 0x0809
)

const biff8 = 0x0600

// xlsCell is one cell of a worksheet substream. Shared-string cells carry no
// value: their text is resolved through the workbook's string table.
type xlsCell struct {
	row, col int
	value    any
	shared   bool
}

type biffRecord struct {
	id   uint16
	data []byte
}

// nextRecord returns the record at off and the offset of the following one.
func nextRecord(stream []byte, off int) (biffRecord, int, bool) {
	if off < 0 || off+4 > len(stream) {
		return biffRecord{}, off, false
	}
	id := binary.LittleEndian.Uint16(stream[off:])
	size := int(binary.LittleEndian.Uint16(stream[off+2:]))
	end := off + 4 + size
	if end > len(stream) {
		return biffRecord{}, off, false
	}
	return biffRecord{id: id, data: stream[off+4 : end]}, end, true
}

// workbookStream extracts the BIFF stream from the OLE2 container.
func workbookStream(data []byte) ([]byte, error) {
	doc, err := ole2.Open(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	dir, err := doc.ListDir()
	if err != nil {
		return nil, err
	}
	var book, root *ole2.File
	for _, f := range dir {
		switch f.Name() {
		case "Workbook", "Book":
			book = f
		case "Root Entry":
			root = f
		}
	}
	if book == nil || root == nil {
		return nil, errors.New("no workbook stream")
	}
	return io.ReadAll(doc.OpenFile(book, root))
}

// sheetOffsets lists the stream offset of every worksheet in workbook order
// and reports whether the stream is BIFF8.
func sheetOffsets(stream []byte) ([]int, bool) {
	var offsets []int
	isBIFF8 := false
	for off := 0; ; {
		rec, next, ok := nextRecord(stream, off)
		if !ok {
			break
		}
		switch rec.id {
		case recBOF:
			if off == 0 && len(rec.data) >= 2 {
				isBIFF8 = binary.LittleEndian.Uint16(rec.data) == biff8
			}
		case recBoundSheet:
			if len(rec.data) >= 4 {
				offsets = append(offsets, int(binary.LittleEndian.Uint32(rec.data)))
			}
		}
		if rec.id == recEOF {
			break
		}
		off = next
	}
	return offsets, isBIFF8
}

// scanSheet reads the cells of the worksheet substream starting at off.
// Numbers come from the stored value, never from the display format, and
// formulas yield their cached result.
func scanSheet(stream []byte, off int, isBIFF8 bool) []xlsCell {
	var cells []xlsCell
	var pending *xlsCell // formula waiting for its STRING record
	for {
		rec, next, ok := nextRecord(stream, off)
		if !ok || rec.id == recEOF {
			break
		}
		off = next
		d := rec.data

		switch rec.id {
		case recNumber:
			if len(d) >= 14 {
				cells = append(cells, cellAt(d, math.Float64frombits(binary.LittleEndian.Uint64(d[6:]))))
			}
		case recRK:
			if len(d) >= 10 {
				cells = append(cells, cellAt(d, rkValue(binary.LittleEndian.Uint32(d[6:]))))
			}
		case recMulRK:
			if len(d) < 6 {
				continue
			}
			row := int(binary.LittleEndian.Uint16(d))
			first := int(binary.LittleEndian.Uint16(d[2:]))
			for i, p := 0, 4; p+6 <= len(d)-2; i, p = i+1, p+6 {
				cells = append(cells, xlsCell{row: row, col: first + i, value: rkValue(binary.LittleEndian.Uint32(d[p+2:]))})
			}
		case recFormula:
			if len(d) < 14 {
				continue
			}
			c := cellAt(d, nil)
			res := d[6:14]
			if res[6] != 0xFF || res[7] != 0xFF {
				c.value = math.Float64frombits(binary.LittleEndian.Uint64(res))
				cells = append(cells, c)
			} else if res[0] == 0 {
				pending = &c
			}
		case recString:
			if pending != nil {
				if s, ok := biffString(d, isBIFF8); ok && s != "" {
					pending.value = s
					cells = append(cells, *pending)
				}
				pending = nil
			}
		case recLabel, recRString:
			if len(d) < 6 {
				continue
			}
			if s, ok := biffString(d[6:], isBIFF8); ok && s != "" {
				cells = append(cells, cellAt(d, s))
			}
		case recLabelSST:
			if len(d) >= 6 {
				c := cellAt(d, nil)
				c.shared = true
				cells = append(cells, c)
			}
		}
	}
	return cells
}

func cellAt(d []byte, v any) xlsCell {
	return xlsCell{
		row:   int(binary.LittleEndian.Uint16(d)),
		col:   int(binary.LittleEndian.Uint16(d[2:])),
		value: v,
	}
}

// rkValue decodes an RK number: a 30-bit integer or the high bits of a
// double, optionally scaled by 100.
func rkValue(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

// biffString decodes a string with a 16-bit length. BIFF8 adds an option
// byte selecting compressed Latin-1 or UTF-16LE characters.
func biffString(d []byte, isBIFF8 bool) (string, bool) {
	if len(d) < 2 {
		return "", false
	}
	n := int(binary.LittleEndian.Uint16(d))
	d = d[2:]
	wide := false
	if isBIFF8 {
		if len(d) < 1 {
			return "", false
		}
		wide = d[0]&0x01 != 0
		d = d[1:]
	}
	if wide {
		if len(d) < 2*n {
			return "", false
		}
		u := make([]uint16, n)
		for i := range u {
			u[i] = binary.LittleEndian.Uint16(d[2*i:])
		}
		return string(utf16.Decode(u)), true
	}
	if len(d) < n {
		return "", false
	}
	r := make([]rune, n)
	for i, b := range d[:n] {
		r[i] = rune(b)
	}
	return string(r), true
}

// loadXLS builds the grid from the stored cell values. Shared strings and
// sheet names come from extrame/xls; its rendered text is not used for
// numbers because it formats user-defined number styles as dates and
// formulas as a placeholder.
func loadXLS(data []byte, name, sheet string) (grid Grid, err error) {
	// the legacy reader panics on some truncated files
	defer func() {
		if r := recover(); r != nil {
			grid = nil
			err = &FormatError{Source: name, Reason: "cannot read legacy workbook", Err: fmt.Errorf("%v", r)}
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &FormatError{Source: name, Reason: "cannot open legacy workbook", Err: err}
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, &FormatError{Source: name, Reason: "workbook has no sheets"}
	}

	index := -1
	var ws *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && (sheet == "" || s.Name == sheet) {
			index, ws = i, s
			break
		}
	}
	if ws == nil {
		return nil, &FormatError{Source: name, Reason: fmt.Sprintf("sheet %q not found", sheet)}
	}

	stream, err := workbookStream(data)
	if err != nil {
		return nil, &FormatError{Source: name, Reason: "cannot open legacy workbook", Err: err}
	}
	offsets, isBIFF8 := sheetOffsets(stream)
	if index >= len(offsets) {
		return nil, &FormatError{Source: name, Reason: fmt.Sprintf("sheet %q has no data", ws.Name)}
	}

	for _, c := range scanSheet(stream, offsets[index], isBIFF8) {
		v := c.value
		if c.shared {
			row := ws.Row(c.row)
			if row == nil {
				continue
			}
			v = row.Col(c.col)
		}
		if v == nil || v == "" {
			continue
		}
		for len(grid) <= c.row {
			grid = append(grid, nil)
		}
		for len(grid[c.row]) <= c.col {
			grid[c.row] = append(grid[c.row], nil)
		}
		grid[c.row][c.col] = v
	}
	if grid == nil {
		grid = Grid{}
	}
	return grid, nil
}
