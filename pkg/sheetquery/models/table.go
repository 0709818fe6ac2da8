package models

import "strings"

// LabelColumn is the index of the column holding row names.
const LabelColumn = 0

// Table represents one loaded sheet.
type Table struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Headers holds the unique column names taken from the first row.
	Headers []string `json:"headers"`
	// Rows contains data rows; each has len(Headers) cells.
	Rows [][]Cell `json:"rows"`
}

// ColumnIndex returns the position of the named header.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Headers {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Label returns the trimmed label of row i. ok is false when the table has
// no columns or the label cell is missing.
func (t *Table) Label(i int) (label string, ok bool) {
	if len(t.Headers) == 0 || i < 0 || i >= len(t.Rows) {
		return "", false
	}
	c := t.Rows[i][LabelColumn]
	if c.IsMissing() {
		return "", false
	}
	return strings.TrimSpace(c.Value), true
}

// Labels returns every non-missing trimmed label in row order.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		if label, ok := t.Label(i); ok {
			labels = append(labels, label)
		}
	}
	return labels
}

// Column returns the cells of column col in row order.
func (t *Table) Column(col int) []Cell {
	cells := make([]Cell, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells = append(cells, row[col])
	}
	return cells
}
