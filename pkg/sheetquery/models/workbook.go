package models

// WorkbookData represents a loaded workbook. Values are treated as immutable
// once published.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// SheetNames lists sheet names in source order.
	SheetNames []string `json:"sheet_names"`
	// Sheets maps sheet name to its table.
	Sheets map[string]*Table `json:"sheets"`
}

// Table returns the named table.
func (wb *WorkbookData) Table(name string) (*Table, bool) {
	if wb == nil {
		return nil, false
	}
	t, ok := wb.Sheets[name]
	return t, ok
}

// Names returns a copy of the sheet names in source order.
func (wb *WorkbookData) Names() []string {
	if wb == nil {
		return []string{}
	}
	return append([]string{}, wb.SheetNames...)
}
