package sheetquery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testSheet struct {
	name string
	rows [][]any
}

// writeWorkbook saves sheets, in order, to a fresh xlsx file and returns
// its path.
func writeWorkbook(t *testing.T, sheets ...testSheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(s.name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// sampleSheet is the Month/A/B table used across query tests.
func sampleSheet() testSheet {
	return testSheet{
		name: "Sheet1",
		rows: [][]any{
			{"Month", "A", "B"},
			{"Jan", "100", "$200"},
			{"Feb", "50%", "N/A"},
		},
	}
}
