package parser

import (
	"fmt"

	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/models"
)

// BuildTable turns raw sheet rows into a table. The first row holding any
// value becomes the header; blank rows above it, data rows with no values and
// columns with no data values are dropped.
func BuildTable(name string, rows [][]models.Cell) *models.Table {
	table := &models.Table{
		Name:    name,
		Headers: []string{},
		Rows:    [][]models.Cell{},
	}
	for len(rows) > 0 && !rowHasData(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return table
	}

	width := maxWidth(rows)
	headers := normalizeHeaders(rows[0], width)

	var data [][]models.Cell
	for _, row := range rows[1:] {
		if !rowHasData(row) {
			continue
		}
		data = append(data, padRow(row, width))
	}

	keep := make([]int, 0, width)
	for col := 0; col < width; col++ {
		if columnHasData(data, col) {
			keep = append(keep, col)
		}
	}

	for _, col := range keep {
		table.Headers = append(table.Headers, headers[col])
	}
	for _, row := range data {
		pruned := make([]models.Cell, len(keep))
		for i, col := range keep {
			pruned[i] = row[col]
		}
		table.Rows = append(table.Rows, pruned)
	}
	return table
}

// normalizeHeaders names blank header cells "Unnamed: <i>" and suffixes
// repeated names with ".<n>" so every column name is unique.
func normalizeHeaders(row []models.Cell, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		h := ""
		if i < len(row) {
			h = row[i].Value
		}
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}

		base := h
		for n := seen[base]; seen[h] > 0; n++ {
			h = fmt.Sprintf("%s.%d", base, n)
		}
		seen[base]++
		if h != base {
			seen[h]++
		}
		headers[i] = h
	}
	return headers
}

// maxWidth finds the column count: one past the last non-missing cell of
// any row, header included.
func maxWidth(rows [][]models.Cell) int {
	width := 0
	for _, row := range rows {
		for col := len(row) - 1; col >= width; col-- {
			if !row[col].IsMissing() {
				width = col + 1
				break
			}
		}
	}
	return width
}

func rowHasData(row []models.Cell) bool {
	for _, c := range row {
		if !c.IsMissing() {
			return true
		}
	}
	return false
}

func columnHasData(rows [][]models.Cell, col int) bool {
	for _, row := range rows {
		if !row[col].IsMissing() {
			return true
		}
	}
	return false
}

func padRow(row []models.Cell, width int) []models.Cell {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]models.Cell, width)
	copy(padded, row)
	return padded
}
