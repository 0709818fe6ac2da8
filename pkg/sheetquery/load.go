package sheetquery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/extrame/xls"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/models"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/parser"
	"github.com/xuri/excelize/v2"
)

// Load reads every sheet of the workbook at path into a table. Failures are
// returned as *LoadError.
func Load(path string, format Format, opts Options) (*models.WorkbookData, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewLoadError(path, format, ErrFileNotFound)
		}
		return nil, NewLoadError(path, format, err)
	}

	var (
		wb  *models.WorkbookData
		err error
	)
	switch format {
	case FormatXLSX:
		wb, err = loadXLSX(path)
	case FormatXLS:
		wb, err = loadXLS(path, opts.charset())
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
	if err != nil {
		return nil, NewLoadError(path, format, err)
	}

	wb.BookName = filepath.Base(path)
	return wb, nil
}

// LoadFile is Load with the format picked from the file extension.
func LoadFile(path string, opts Options) (*models.WorkbookData, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, NewLoadError(path, format, err)
	}
	return Load(path, format, opts)
}

func loadXLSX(path string) (*models.WorkbookData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb := newWorkbook()
	for _, sheetName := range f.GetSheetList() {
		rows, err := parser.ExtractCells(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
		}
		wb.add(parser.BuildTable(sheetName, rows))
	}
	return wb.WorkbookData, nil
}

func loadXLS(path, charset string) (result *models.WorkbookData, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// The BIFF reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("corrupt xls file: %v", r)
		}
	}()

	book, err := xls.OpenReader(file, charset)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.New("no workbook stream in xls file")
	}

	wb := newWorkbook()
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}
		wb.add(parser.BuildTable(sheet.Name, parser.ExtractXLSCells(sheet)))
	}
	return wb.WorkbookData, nil
}

// workbookBuilder accumulates tables in source order.
type workbookBuilder struct {
	*models.WorkbookData
}

func newWorkbook() workbookBuilder {
	return workbookBuilder{&models.WorkbookData{
		SheetNames: []string{},
		Sheets:     make(map[string]*models.Table),
	}}
}

func (b workbookBuilder) add(t *models.Table) {
	b.SheetNames = append(b.SheetNames, t.Name)
	b.Sheets[t.Name] = t
}
