package parser

import (
	"strings"

	"github.com/extrame/xls"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells reads every row of an xlsx sheet. Numeric cells keep their
// stored value regardless of number format; date, time and boolean cells
// come back as display text so they never count as numbers.
// Rows are ragged; callers pad them with BuildTable.
func ExtractCells(f *excelize.File, sheetName string) ([][]models.Cell, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	result := make([][]models.Cell, 0, len(rows))
	for r, row := range rows {
		cells := toCells(row)
		for c := range cells {
			if cells[c].Kind != models.CellNumber {
				continue
			}
			text, err := displayOnly(f, sheetName, c+1, r+1)
			if err != nil {
				return nil, err
			}
			if text != "" {
				cells[c] = models.Cell{Kind: models.CellText, Value: text}
			}
		}
		result = append(result, cells)
	}
	return result, nil
}

// displayOnly returns the formatted text of a cell whose raw value is not a
// quantity (booleans, dates, times), or "" when the raw value should stand.
func displayOnly(f *excelize.File, sheetName string, col, row int) (string, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}

	typ, err := f.GetCellType(sheetName, ref)
	if err != nil {
		return "", err
	}
	switch typ {
	case excelize.CellTypeBool, excelize.CellTypeDate:
		return f.GetCellValue(sheetName, ref)
	}

	styleID, err := f.GetCellStyle(sheetName, ref)
	if err != nil || styleID == 0 {
		return "", err
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		return "", err
	}
	if !isDateStyle(style) {
		return "", nil
	}
	return f.GetCellValue(sheetName, ref)
}

func isDateStyle(style *excelize.Style) bool {
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat covers the ECMA-376 date and time IDs plus the East
// Asian locale date IDs.
func isBuiltInDateFormat(id int) bool {
	switch {
	case 14 <= id && id <= 22:
		return true
	case 27 <= id && id <= 36:
		return true
	case 45 <= id && id <= 47:
		return true
	case 50 <= id && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a number format code renders a date or time.
// Quoted literals, escaped characters and bracketed locale or colour codes
// are ignored; elapsed-time brackets such as [h] count as time.
func isDateFormat(code string) bool {
	section := code
	if i := strings.IndexByte(section, ';'); i >= 0 {
		section = section[:i]
	}
	section = strings.ToLower(section)

	for i := 0; i < len(section); i++ {
		switch section[i] {
		case '"':
			end := strings.IndexByte(section[i+1:], '"')
			if end < 0 {
				return false
			}
			i += end + 1
		case '\\', '_', '*':
			i++
		case '[':
			end := strings.IndexByte(section[i+1:], ']')
			if end < 0 {
				return false
			}
			if end > 0 && strings.Trim(section[i+1:i+1+end], "hms") == "" {
				return true
			}
			i += end + 1
		case 'y', 'm', 'd', 'h', 's':
			return true
		}
	}
	return false
}

// ExtractXLSCells reads every row of a legacy xls sheet. The reader renders
// NUMBER and RK records as their stored value and date-formatted records as
// date text. Row indexes the reader has no record for come back as empty
// rows so that source positions are kept.
func ExtractXLSCells(sheet *xls.WorkSheet) [][]models.Cell {
	if sheet == nil {
		return nil
	}

	// MaxRow is zero both for an empty sheet and for a single-row sheet.
	if sheet.MaxRow == 0 && sheet.Row(0) == nil {
		return nil
	}

	result := make([][]models.Cell, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			result = append(result, nil)
			continue
		}
		values := make([]string, 0, row.LastCol()+1)
		for col := 0; col <= row.LastCol(); col++ {
			values = append(values, row.Col(col))
		}
		result = append(result, toCells(values))
	}
	return result
}

func toCells(values []string) []models.Cell {
	cells := make([]models.Cell, len(values))
	for i, v := range values {
		cells[i] = models.NewCell(v)
	}
	return cells
}
