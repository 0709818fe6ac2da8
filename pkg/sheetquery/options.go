// Package sheetquery loads spreadsheet workbooks and answers label listing
// and row/column sum queries over their sheets.
package sheetquery

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format represents the declared spreadsheet container.
type Format string

const (
	// FormatXLS is the legacy BIFF binary workbook (.xls).
	FormatXLS Format = "xls"
	// FormatXLSX is the zip-based Office Open XML workbook (.xlsx).
	FormatXLSX Format = "xlsx"
)

// FormatFromPath selects the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return FormatXLS, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// DefaultCharset is used to decode legacy xls strings when none is set.
const DefaultCharset = "utf-8"

// DefaultLimit is the page size used by callers that do not pick one.
const DefaultLimit = 100

// Options configures workbook loading.
type Options struct {
	// Charset is the text encoding passed to the legacy xls reader.
	// If empty, DefaultCharset is used.
	Charset string
}

// DefaultOptions returns default load options.
func DefaultOptions() Options {
	return Options{
		Charset: DefaultCharset,
	}
}

func (o Options) charset() string {
	if o.Charset == "" {
		return DefaultCharset
	}
	return o.Charset
}
