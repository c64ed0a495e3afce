package table

import (
	"fmt"
	"strconv"
)

type coord struct{ row, col int }

// Grid is the in-memory Table used by tests and dry runs.
type Grid struct {
	cells   map[coord]any
	markers map[coord]Marker
	merges  [][4]int
	maxRow  int
	maxCol  int
}

// NewGrid returns an empty grid with the identifier header in place.
func NewGrid() *Grid {
	g := &Grid{
		cells:   make(map[coord]any),
		markers: make(map[coord]Marker),
	}
	g.SetHeader(1, IDColumn, IDHeader)
	g.MergeHeader(1, IDColumn, 2, IDColumn)
	return g
}

func (g *Grid) Cell(row, col int) string {
	return cellString(g.cells[coord{row, col}])
}

// RawCell returns the stored value without string rendering.
func (g *Grid) RawCell(row, col int) any {
	return g.cells[coord{row, col}]
}

func (g *Grid) SetCell(row, col int, v any) {
	if v == nil {
		delete(g.cells, coord{row, col})
		return
	}
	g.cells[coord{row, col}] = v
	g.grow(row, col)
}

func (g *Grid) ClearCell(row, col int) {
	delete(g.cells, coord{row, col})
	delete(g.markers, coord{row, col})
}

func (g *Grid) Marker(row, col int) Marker {
	return g.markers[coord{row, col}]
}

func (g *Grid) SetMarker(row, col int, m Marker) {
	if m == MarkerNone {
		delete(g.markers, coord{row, col})
		return
	}
	g.markers[coord{row, col}] = m
	g.grow(row, col)
}

func (g *Grid) SetHeader(row, col int, text string) {
	g.SetCell(row, col, text)
}

func (g *Grid) MergeHeader(startRow, startCol, endRow, endCol int) {
	g.merges = append(g.merges, [4]int{startRow, startCol, endRow, endCol})
	g.grow(endRow, endCol)
}

func (g *Grid) ResetHeaderMerges() {
	kept := g.merges[:0]
	for _, m := range g.merges {
		if m[0] <= 2 && m[1] != IDColumn {
			continue
		}
		kept = append(kept, m)
	}
	g.merges = kept
}

// Merges returns the active merged spans as [startRow, startCol, endRow, endCol].
func (g *Grid) Merges() [][4]int {
	return g.merges
}

func (g *Grid) Rows() int { return g.maxRow }
func (g *Grid) Cols() int { return g.maxCol }

func (g *Grid) grow(row, col int) {
	if row > g.maxRow {
		g.maxRow = row
	}
	if col > g.maxCol {
		g.maxCol = col
	}
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
