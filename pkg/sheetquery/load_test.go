package sheetquery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t,
		testSheet{name: "Budget", rows: [][]any{
			{"Item", nil, "Cost", "Note"},
			{"Rent", nil, 1200, nil},
			{nil, nil, nil, nil},
			{"Food", nil, "$300.50", nil},
		}},
		sampleSheet(),
		testSheet{name: "Blank"},
	)

	wb, err := Load(path, FormatXLSX, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "book.xlsx", wb.BookName)
	assert.Equal(t, []string{"Budget", "Sheet1", "Blank"}, wb.SheetNames)

	budget, ok := wb.Table("Budget")
	require.True(t, ok)
	assert.Equal(t, []string{"Item", "Cost"}, budget.Headers)
	require.Len(t, budget.Rows, 2)
	assert.Equal(t, "Rent", budget.Rows[0][0].Value)
	assert.Equal(t, "1200", budget.Rows[0][1].Value)
	assert.Equal(t, "$300.50", budget.Rows[1][1].Value)

	blank, ok := wb.Table("Blank")
	require.True(t, ok)
	assert.Empty(t, blank.Headers)
	assert.Empty(t, blank.Rows)
}

func TestLoadXLSXSumsStoredValues(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Item", "Base", "Adjust", "Rate"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Rent", 1234.5678, -1000, 0.125}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Paid", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true, 45000}))

	accounting := "#,##0;(#,##0)"
	isoDate := "yyyy-mm-dd"
	styles := []struct {
		cell  string
		style *excelize.Style
	}{
		{"B2", &excelize.Style{NumFmt: 3}},
		{"C2", &excelize.Style{CustomNumFmt: &accounting}},
		{"D2", &excelize.Style{NumFmt: 9}},
		{"D3", &excelize.Style{CustomNumFmt: &isoDate}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		require.NoError(t, err)
		require.NoError(t, f.SetCellStyle(sheet, s.cell, s.cell, id))
	}

	path := filepath.Join(t.TempDir(), "styled.xlsx")
	require.NoError(t, f.SaveAs(path))

	wb, err := Load(path, FormatXLSX, DefaultOptions())
	require.NoError(t, err)

	// Displayed as "1,235", "(1,000)" and "13%".
	rent, err := RowAggregate(wb, sheet, "Rent")
	require.NoError(t, err)
	assert.InDelta(t, 234.6928, rent.Sum, 1e-9)
	assert.Equal(t, 3, rent.Numeric)
	assert.Equal(t, 0, rent.Excluded)

	// Dates and booleans are stored as numbers but are not quantities.
	paid, err := RowAggregate(wb, sheet, "Paid")
	require.NoError(t, err)
	assert.Zero(t, paid.Sum)
	assert.Equal(t, 0, paid.Numeric)
	assert.Equal(t, 3, paid.Excluded)

	table, ok := wb.Table(sheet)
	require.True(t, ok)
	assert.Equal(t, "TRUE", table.Rows[1][2].Value)
	assert.Equal(t, "2023-03-15", table.Rows[1][3].Value)

	base, err := ColumnAggregate(wb, sheet, "Base")
	require.NoError(t, err)
	assert.InDelta(t, 1234.5678, base.Sum, 1e-9)
	assert.Equal(t, 1, base.Excluded)
}

func TestLoadXLSXSkipsLeadingBlankRows(t *testing.T) {
	path := writeWorkbook(t, testSheet{name: "Sheet1", rows: [][]any{
		{},
		{nil, nil, nil},
		{"Month", "A", "B"},
		{"Jan", "100", "$200"},
	}})

	wb, err := Load(path, FormatXLSX, DefaultOptions())
	require.NoError(t, err)

	table, ok := wb.Table("Sheet1")
	require.True(t, ok)
	assert.Equal(t, []string{"Month", "A", "B"}, table.Headers)
	assert.Equal(t, []string{"Jan"}, table.Labels())

	sum, err := ColumnSum(wb, "Sheet1", "B")
	require.NoError(t, err)
	assert.InDelta(t, 200.0, sum, 1e-9)
}

func TestLoadXLS(t *testing.T) {
	wb, err := Load(filepath.Join("testdata", "Table.xls"), FormatXLS, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "Table.xls", wb.BookName)
	assert.Equal(t, []string{"Table"}, wb.SheetNames)

	table, ok := wb.Table("Table")
	require.True(t, ok)
	assert.Equal(t, []string{"Code", "Name", "Description"}, table.Headers)
	require.Len(t, table.Rows, 11)
	assert.Equal(t, "code1", table.Rows[0][0].Value)
	assert.Equal(t, "description11", table.Rows[10][2].Value)

	labels, err := TableDetails(wb, "Table", 3, 9)
	require.NoError(t, err)
	assert.Equal(t, []string{"code10", "code11"}, labels)

	agg, err := ColumnAggregate(wb, "Table", "Description")
	require.NoError(t, err)
	assert.Zero(t, agg.Sum)
	assert.Equal(t, 11, agg.Excluded)
}

func TestLoadXLSNumbers(t *testing.T) {
	// Description holds 0.25 in the first row and 100*row after it.
	wb, err := LoadFile(filepath.Join("testdata", "budget.xls"), DefaultOptions())
	require.NoError(t, err)

	table, ok := wb.Table("Table")
	require.True(t, ok)
	assert.Equal(t, []string{"Code", "Name", "Description"}, table.Headers)
	require.Len(t, table.Rows, 11)

	agg, err := RowAggregate(wb, "Table", "code1")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, agg.Sum, 1e-9)
	assert.Equal(t, 1, agg.Numeric)
	assert.Equal(t, 1, agg.Excluded)

	sum, err := RowSum(wb, "Table", "code3")
	require.NoError(t, err)
	assert.InDelta(t, 300.0, sum, 1e-9)

	agg, err = ColumnAggregate(wb, "Table", "Description")
	require.NoError(t, err)
	assert.InDelta(t, 6500.25, agg.Sum, 1e-9)
	assert.Equal(t, 11, agg.Numeric)
	assert.Equal(t, 0, agg.Excluded)
}

func TestLoadIsRepeatable(t *testing.T) {
	path := writeWorkbook(t, sampleSheet())

	first, err := Load(path, FormatXLSX, DefaultOptions())
	require.NoError(t, err)
	second, err := Load(path, FormatXLSX, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadFileSelectsFormatByExtension(t *testing.T) {
	path := writeWorkbook(t, sampleSheet())

	wb, err := LoadFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1"}, wb.SheetNames)

	renamed := filepath.Join(t.TempDir(), "book.csv")
	require.NoError(t, os.Rename(path, renamed))

	_, err = LoadFile(renamed, DefaultOptions())
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.xlsx")
	require.NoError(t, os.WriteFile(garbage, []byte("not a zip archive"), 0644))

	legacy := filepath.Join(dir, "garbage.xls")
	require.NoError(t, os.WriteFile(legacy, []byte("not a compound document"), 0644))

	tests := []struct {
		name   string
		path   string
		format Format
		is     error
	}{
		{"missing file", filepath.Join(dir, "missing.xlsx"), FormatXLSX, ErrFileNotFound},
		{"corrupt xlsx", garbage, FormatXLSX, nil},
		{"corrupt xls", legacy, FormatXLS, nil},
		{"unknown format", garbage, Format("ods"), ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb, err := Load(tt.path, tt.format, DefaultOptions())
			assert.Nil(t, wb)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected *LoadError, got %T", err)
			assert.Equal(t, tt.path, loadErr.Path)
			assert.Equal(t, tt.format, loadErr.Format)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
		wantErr  bool
	}{
		{"report.xlsx", FormatXLSX, false},
		{"REPORT.XLSX", FormatXLSX, false},
		{"/tmp/old.xls", FormatXLS, false},
		{"data.csv", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		format, err := FormatFromPath(tt.path)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.expected, format, tt.path)
	}
}
