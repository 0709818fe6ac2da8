// Package output serializes loaded workbooks and query results.
package output

import (
	"encoding/json"

	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/models"
)

// workbookJSON keeps sheets in source order; a map would be sorted.
type workbookJSON struct {
	BookName string          `json:"book_name"`
	Sheets   []*models.Table `json:"sheets"`
}

// ToJSON serializes a workbook with its tables in source order.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	doc := workbookJSON{
		BookName: wb.BookName,
		Sheets:   make([]*models.Table, 0, len(wb.SheetNames)),
	}
	for _, name := range wb.SheetNames {
		doc.Sheets = append(doc.Sheets, wb.Sheets[name])
	}
	return Marshal(doc, pretty)
}

// TableToJSON serializes a single table.
func TableToJSON(t *models.Table, pretty bool) ([]byte, error) {
	return Marshal(t, pretty)
}

// Marshal encodes v, indented with two spaces when pretty is set.
func Marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
