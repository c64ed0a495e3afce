package table

// ResultMarker maps a result token to its visual marker. Markers are
// mutually exclusive; anything but P/F/A clears.
func ResultMarker(result string) Marker {
	switch result {
	case "P":
		return MarkerPass
	case "F":
		return MarkerFail
	case "A":
		return MarkerAbsent
	}
	return MarkerNone
}

// Annotate applies the marker for result to the cell, replacing any stale one.
func Annotate(t Table, row, col int, result string) {
	t.SetMarker(row, col, ResultMarker(result))
}
