package table

import (
	"sort"

	"marksheet/internal/model"
	"marksheet/internal/normalize"
)

// Layout maps canonical codes to the first column of their 4-column block.
type Layout struct {
	order []string
	cols  map[string]int
}

// Col returns the starting column of code's block.
func (l *Layout) Col(code string) (int, bool) {
	c, ok := l.cols[code]
	return c, ok
}

// Codes returns the codes in column order.
func (l *Layout) Codes() []string {
	return l.order
}

// Headers reads the subject codes currently present in the header row, left
// to right. Blocks are BlockWidth apart starting at FirstSubjectColumn.
func Headers(t Table) []string {
	var codes []string
	for col := FirstSubjectColumn; col <= t.Cols(); col += BlockWidth {
		if code := t.Cell(1, col); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

type cellState struct {
	value  string
	marker Marker
}

// Plan reconciles the header rows with codes: the union of existing headers
// and codes, sorted lexicographically, one 4-column block each. Every
// existing block's row data (values and markers) is carried to its code's
// new columns before the header labels are rewritten, so relabeling can
// never detach historical marks from their subject.
func Plan(t Table, codes []string) *Layout {
	existing := Headers(t)

	union := make([]string, 0, len(existing)+len(codes))
	seen := make(map[string]struct{})
	for _, c := range append(append([]string{}, existing...), codes...) {
		key := normalize.Code(c)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		union = append(union, c)
	}
	sort.Strings(union)

	lastRow := t.Rows()
	lastCol := t.Cols()

	// Snapshot every existing block before anything moves.
	blocks := make(map[string][][BlockWidth]cellState, len(existing))
	for i, code := range existing {
		col := FirstSubjectColumn + i*BlockWidth
		var rows [][BlockWidth]cellState
		for row := FirstDataRow; row <= lastRow; row++ {
			var b [BlockWidth]cellState
			for off := 0; off < BlockWidth; off++ {
				b[off] = cellState{value: t.Cell(row, col+off), marker: t.Marker(row, col+off)}
			}
			rows = append(rows, b)
		}
		blocks[code] = rows
	}

	// Clear headers and the whole data region beyond the identifier column.
	t.ResetHeaderMerges()
	for col := FirstSubjectColumn; col <= lastCol; col++ {
		t.ClearCell(1, col)
		t.ClearCell(2, col)
		for row := FirstDataRow; row <= lastRow; row++ {
			t.ClearCell(row, col)
		}
	}

	// Rewrite headers in sorted order and replay the snapshots underneath.
	layout := &Layout{order: union, cols: make(map[string]int, len(union))}
	for i, code := range union {
		col := FirstSubjectColumn + i*BlockWidth
		layout.cols[code] = col

		t.MergeHeader(1, col, 1, col+BlockWidth-1)
		t.SetHeader(1, col, code)
		for j, name := range SubLabels {
			t.SetHeader(2, col+j, name)
		}

		for r, b := range blocks[code] {
			row := FirstDataRow + r
			for off := 0; off < BlockWidth; off++ {
				if b[off].value != "" {
					writeValue(t, row, col+off, b[off].value)
				}
				if b[off].marker != MarkerNone {
					t.SetMarker(row, col+off, b[off].marker)
				}
			}
		}
	}
	return layout
}

// writeValue stores integral values as numbers and anything else verbatim.
func writeValue(t Table, row, col int, v any) {
	if model.Blank(v) {
		return
	}
	if n, ok := model.CoerceInt(v); ok {
		t.SetCell(row, col, n)
		return
	}
	t.SetCell(row, col, v)
}
