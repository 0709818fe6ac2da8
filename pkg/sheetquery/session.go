package sheetquery

import (
	"log/slog"
	"sync/atomic"

	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/models"
)

// Session owns the currently loaded workbook. Load builds a new snapshot
// and publishes it in one atomic store; queries read a single snapshot per
// call. A failed load keeps the previous snapshot.
//
// A Session is safe for concurrent use.
type Session struct {
	current atomic.Pointer[models.WorkbookData]
	opts    Options
	logger  *slog.Logger
}

// NewSession creates an empty session. A nil logger means slog.Default().
func NewSession(opts Options, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{opts: opts, logger: logger}
}

// Load reads the workbook at path and makes it current, returning its
// table names.
func (s *Session) Load(path string, format Format) ([]string, error) {
	wb, err := Load(path, format, s.opts)
	if err != nil {
		s.logger.Warn("workbook load failed", "path", path, "format", format, "error", err)
		return nil, err
	}
	s.current.Store(wb)
	s.logger.Info("workbook loaded", "book", wb.BookName, "format", format, "tables", len(wb.SheetNames))
	return wb.Names(), nil
}

// Snapshot returns the current workbook, or nil if nothing is loaded.
func (s *Session) Snapshot() *models.WorkbookData {
	return s.current.Load()
}

// ListTables returns the loaded table names; empty before the first load.
func (s *Session) ListTables() []string {
	return ListTables(s.Snapshot())
}

// TableDetails pages through the row labels of table.
func (s *Session) TableDetails(table string, limit, offset int) ([]string, error) {
	return TableDetails(s.Snapshot(), table, limit, offset)
}

// RowSum sums the numeric cells of the named row.
func (s *Session) RowSum(table, row string) (float64, error) {
	return RowSum(s.Snapshot(), table, row)
}

// RowAggregate sums the named row and reports cell counts.
func (s *Session) RowAggregate(table, row string) (models.Aggregate, error) {
	return RowAggregate(s.Snapshot(), table, row)
}

// ColumnSum sums the numeric cells of the named column.
func (s *Session) ColumnSum(table, column string) (float64, error) {
	return ColumnSum(s.Snapshot(), table, column)
}

// ColumnAggregate sums the named column and reports cell counts.
func (s *Session) ColumnAggregate(table, column string) (models.Aggregate, error) {
	return ColumnAggregate(s.Snapshot(), table, column)
}
