package table

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Fill colors per marker, RGB hex. Same palette the legacy sheets used.
var markerColors = map[Marker]string{
	MarkerFail:   "FFC7CE",
	MarkerPass:   "C6EFCE",
	MarkerAbsent: "FFEB9C",
}

// Workbook is an excelize-backed Table persisted as an .xlsx file. Saving
// writes a temporary sibling first and renames it over the target, so a
// failed save leaves the previous artifact intact.
type Workbook struct {
	f           *excelize.File
	path        string
	sheet       string
	headerStyle int
	plainStyle  int
	markerStyle map[Marker]int
}

// OpenWorkbook loads the workbook at path, or prepares a new one with the
// identifier header when the file does not exist. Nothing touches the disk
// until Save.
func OpenWorkbook(path, sheet string) (*Workbook, error) {
	var f *excelize.File
	fresh := false
	if _, err := os.Stat(path); err == nil {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		f = excelize.NewFile()
		fresh = true
	} else {
		return nil, fmt.Errorf("stat workbook: %w", err)
	}

	w := &Workbook{f: f, path: path, sheet: sheet}
	if fresh {
		if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		// Existing file without the expected sheet: use whatever is active.
		w.sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	if err := w.initStyles(); err != nil {
		return nil, err
	}
	if fresh {
		w.SetHeader(1, IDColumn, IDHeader)
		w.MergeHeader(1, IDColumn, 2, IDColumn)
	}
	return w, nil
}

func (w *Workbook) initStyles() error {
	var err error
	w.headerStyle, err = w.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	w.plainStyle, err = w.f.NewStyle(&excelize.Style{})
	if err != nil {
		return fmt.Errorf("plain style: %w", err)
	}
	w.markerStyle = make(map[Marker]int, len(markerColors))
	for m, color := range markerColors {
		id, err := w.f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return fmt.Errorf("marker style: %w", err)
		}
		w.markerStyle[m] = id
	}
	return nil
}

func (w *Workbook) axis(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (w *Workbook) Cell(row, col int) string {
	v, _ := w.f.GetCellValue(w.sheet, w.axis(row, col))
	return v
}

func (w *Workbook) SetCell(row, col int, v any) {
	_ = w.f.SetCellValue(w.sheet, w.axis(row, col), v)
}

func (w *Workbook) ClearCell(row, col int) {
	cell := w.axis(row, col)
	_ = w.f.SetCellValue(w.sheet, cell, nil)
	_ = w.f.SetCellStyle(w.sheet, cell, cell, w.plainStyle)
}

// Marker reads the cell's fill back into a Marker. Colors round-trip through
// the file as ARGB, so only the trailing RGB part is compared.
func (w *Workbook) Marker(row, col int) Marker {
	cell := w.axis(row, col)
	styleID, err := w.f.GetCellStyle(w.sheet, cell)
	if err != nil {
		return MarkerNone
	}
	style, err := w.f.GetStyle(styleID)
	if err != nil || style == nil || len(style.Fill.Color) == 0 {
		return MarkerNone
	}
	color := strings.ToUpper(style.Fill.Color[0])
	if len(color) > 6 {
		color = color[len(color)-6:]
	}
	for m, c := range markerColors {
		if c == color {
			return m
		}
	}
	return MarkerNone
}

func (w *Workbook) SetMarker(row, col int, m Marker) {
	cell := w.axis(row, col)
	style := w.plainStyle
	if id, ok := w.markerStyle[m]; ok {
		style = id
	}
	_ = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

func (w *Workbook) SetHeader(row, col int, text string) {
	cell := w.axis(row, col)
	_ = w.f.SetCellValue(w.sheet, cell, text)
	_ = w.f.SetCellStyle(w.sheet, cell, cell, w.headerStyle)
}

func (w *Workbook) MergeHeader(startRow, startCol, endRow, endCol int) {
	_ = w.f.MergeCell(w.sheet, w.axis(startRow, startCol), w.axis(endRow, endCol))
}

func (w *Workbook) ResetHeaderMerges() {
	merges, err := w.f.GetMergeCells(w.sheet)
	if err != nil {
		return
	}
	for _, m := range merges {
		start := m.GetStartAxis()
		col, row, err := excelize.CellNameToCoordinates(start)
		if err != nil || row > 2 || col == IDColumn {
			continue
		}
		_ = w.f.UnmergeCell(w.sheet, start, m.GetEndAxis())
	}
}

func (w *Workbook) Rows() int {
	rows, _ := w.f.GetRows(w.sheet)
	return len(rows)
}

func (w *Workbook) Cols() int {
	rows, _ := w.f.GetRows(w.sheet)
	max := 0
	for _, r := range rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// Save persists the workbook via temp-file-then-replace.
func (w *Workbook) Save() error {
	tmp := w.path + ".tmp"
	// SaveAs refuses the .tmp extension, so write the archive to the temp
	// sibling directly.
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := w.f.Write(out); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

// Close releases the underlying file handle.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Path returns the workbook's on-disk location.
func (w *Workbook) Path() string {
	return w.path
}
