// Package table provides the structured-table capability the aggregation
// engine writes into: a fixed identifier column followed by 4-column subject
// blocks, with merged header spans and per-cell result markers. Grid is the
// in-memory implementation; Workbook persists as an .xlsx file.
package table

// Marker is the visual state attached to a result cell.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerPass
	MarkerFail
	MarkerAbsent
)

// Fixed layout: column 1 holds the identifier, rows 1-2 hold headers, each
// subject owns a 4-column block starting at column 2.
const (
	IDColumn           = 1
	FirstSubjectColumn = 2
	FirstDataRow       = 3
	BlockWidth         = 4
)

// IDHeader is the merged identifier-column header spanning rows 1-2.
const IDHeader = "University Seat Number"

// SubLabels are the row-2 labels under each subject block, in column order.
var SubLabels = [BlockWidth]string{"Internal", "External", "Total", "Result"}

// Table is a structured grid with 1-based rows and columns. Implementations
// keep a marker attached to its cell until the cell is cleared or the marker
// is overwritten.
type Table interface {
	// Cell returns the cell's value rendered as a string, "" when empty.
	Cell(row, col int) string
	// SetCell stores v; nil clears the value.
	SetCell(row, col int, v any)
	// ClearCell removes the cell's value and marker.
	ClearCell(row, col int)
	Marker(row, col int) Marker
	SetMarker(row, col int, m Marker)
	// SetHeader stores header text with header styling.
	SetHeader(row, col int, text string)
	// MergeHeader merges the given span into one header cell.
	MergeHeader(startRow, startCol, endRow, endCol int)
	// ResetHeaderMerges removes every merged span touching the header rows,
	// except the identifier column's.
	ResetHeaderMerges()
	// Rows and Cols report the extent of occupied cells.
	Rows() int
	Cols() int
}
