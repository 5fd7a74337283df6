package summary

import "strings"

// RowPredicate reports whether a row, rendered as text, is the one sought.
type RowPredicate func(cells []string) bool

// FindRow returns the index of the first row at or after start that
// satisfies pred.
func FindRow(rows [][]string, start int, pred RowPredicate) (int, bool) {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(rows); i++ {
		if pred(rows[i]) {
			return i, true
		}
	}
	return -1, false
}

// ContainsFold matches rows with a cell containing needle, ignoring case.
func ContainsFold(needle string) RowPredicate {
	needle = strings.ToLower(needle)
	return func(cells []string) bool {
		for _, c := range cells {
			if strings.Contains(strings.ToLower(c), needle) {
				return true
			}
		}
		return false
	}
}
