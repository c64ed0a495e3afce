package table

import (
	"marksheet/internal/model"
	"marksheet/internal/normalize"
)

// Upsert writes one identifier's subject blocks into its row, allocating the
// row if needed, and returns the row used. Each block written is cleared
// (values and markers) first; blocks for subjects absent from marks are left
// untouched, preserving prior-run data.
func Upsert(t Table, l *Layout, usn string, marks map[string]model.SubjectMarks) int {
	row := findRow(t, usn)
	t.SetCell(row, IDColumn, usn)

	for code, m := range marks {
		col, ok := l.Col(code)
		if !ok {
			continue
		}
		for off := 0; off < BlockWidth; off++ {
			t.ClearCell(row, col+off)
		}
		writeValue(t, row, col, m.Internal)
		writeValue(t, row, col+1, m.External)
		writeValue(t, row, col+2, m.Total)

		result := normalize.Result(m.Result)
		t.SetCell(row, col+BlockWidth-1, result)
		Annotate(t, row, col+BlockWidth-1, result)
	}
	return row
}

// findRow locates the row holding usn, else the first fully empty row
// (deletions leave gaps), else the row past the last occupied one.
func findRow(t Table, usn string) int {
	lastRow := t.Rows()
	for row := FirstDataRow; row <= lastRow; row++ {
		if t.Cell(row, IDColumn) == usn {
			return row
		}
	}
	lastCol := t.Cols()
	for row := FirstDataRow; row <= lastRow; row++ {
		if rowEmpty(t, row, lastCol) {
			return row
		}
	}
	if lastRow < FirstDataRow {
		return FirstDataRow
	}
	return lastRow + 1
}

func rowEmpty(t Table, row, lastCol int) bool {
	for col := IDColumn; col <= lastCol; col++ {
		if t.Cell(row, col) != "" {
			return false
		}
	}
	return true
}
