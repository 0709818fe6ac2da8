// Package models defines data structures for loaded workbooks.
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CellKind classifies a cell value as read from the source sheet.
type CellKind int

const (
	// CellMissing is an empty or absent cell.
	CellMissing CellKind = iota
	// CellText is a cell whose text is not a plain number.
	CellText
	// CellNumber is a cell whose text is a finite decimal number.
	CellNumber
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	default:
		return "missing"
	}
}

// Cell is a single cell value. Value holds the stored number for numeric
// cells, the display text otherwise, and is empty for missing cells.
type Cell struct {
	Kind  CellKind
	Value string
}

// NewCell classifies s. Empty text is missing.
func NewCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	if _, ok := decimal(s); ok {
		return Cell{Kind: CellNumber, Value: s}
	}
	return Cell{Kind: CellText, Value: s}
}

func decimal(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsMissing reports whether the cell has no value.
func (c Cell) IsMissing() bool {
	return c.Kind == CellMissing
}

// String returns the cell text.
func (c Cell) String() string {
	return c.Value
}

// MarshalJSON encodes missing cells as null, numeric cells as JSON numbers
// and everything else as its text.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellMissing:
		return []byte("null"), nil
	case CellNumber:
		if i, err := strconv.ParseInt(c.Value, 10, 64); err == nil {
			return json.Marshal(i)
		}
		if f, ok := decimal(c.Value); ok {
			return json.Marshal(f)
		}
	}
	return json.Marshal(c.Value)
}
