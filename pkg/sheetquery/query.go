package sheetquery

import (
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/models"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/parser"
)

// ListTables returns the sheet names of wb in load order.
func ListTables(wb *models.WorkbookData) []string {
	return wb.Names()
}

// TableDetails returns up to limit row labels of the named table starting
// at offset. Missing labels are skipped and the rest are trimmed.
func TableDetails(wb *models.WorkbookData, table string, limit, offset int) ([]string, error) {
	if limit < 0 {
		return nil, &InvalidArgumentError{Name: "limit", Value: limit}
	}
	if offset < 0 {
		return nil, &InvalidArgumentError{Name: "offset", Value: offset}
	}
	t, ok := wb.Table(table)
	if !ok {
		return nil, tableNotFound(table)
	}

	labels := t.Labels()
	if offset >= len(labels) {
		return []string{}, nil
	}
	end := len(labels)
	if limit < end-offset {
		end = offset + limit
	}
	return labels[offset:end], nil
}

// RowSum sums the numeric cells of the first row labelled row.
func RowSum(wb *models.WorkbookData, table, row string) (float64, error) {
	agg, err := RowAggregate(wb, table, row)
	return agg.Sum, err
}

// RowAggregate is RowSum with cell counts. The label cell itself is not
// part of the sum.
func RowAggregate(wb *models.WorkbookData, table, row string) (models.Aggregate, error) {
	t, ok := wb.Table(table)
	if !ok {
		return models.Aggregate{}, tableNotFound(table)
	}
	for i := range t.Rows {
		if label, ok := t.Label(i); ok && label == row {
			return aggregate(t.Rows[i][models.LabelColumn+1:]), nil
		}
	}
	return models.Aggregate{}, rowNotFound(table, row)
}

// ColumnSum sums the numeric cells under the header column.
func ColumnSum(wb *models.WorkbookData, table, column string) (float64, error) {
	agg, err := ColumnAggregate(wb, table, column)
	return agg.Sum, err
}

// ColumnAggregate is ColumnSum with cell counts.
func ColumnAggregate(wb *models.WorkbookData, table, column string) (models.Aggregate, error) {
	t, ok := wb.Table(table)
	if !ok {
		return models.Aggregate{}, tableNotFound(table)
	}
	col, ok := t.ColumnIndex(column)
	if !ok {
		return models.Aggregate{}, columnNotFound(table, column)
	}
	return aggregate(t.Column(col)), nil
}

func aggregate(cells []models.Cell) models.Aggregate {
	var agg models.Aggregate
	for _, c := range cells {
		if c.IsMissing() {
			continue
		}
		v, ok := parser.ExtractNumber(c.Value).Float64()
		if !ok {
			agg.Excluded++
			continue
		}
		agg.Sum += v
		agg.Numeric++
	}
	return agg
}
