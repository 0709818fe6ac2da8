package sheetquery

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates the file extension is neither .xls nor .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrNotFound is matched by every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// LoadError represents a failure to read a workbook.
type LoadError struct {
	Path   string
	Format Format
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s workbook %q: %v", e.Format, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(path string, format Format, err error) *LoadError {
	return &LoadError{
		Path:   path,
		Format: format,
		Err:    err,
	}
}

// NotFoundError reports a missing table, row or column.
type NotFoundError struct {
	Kind  string // "table", "row", "column"
	Name  string
	Table string // owning table for rows and columns
}

func (e *NotFoundError) Error() string {
	if e.Kind == "table" || e.Table == "" {
		return fmt.Sprintf("%s '%s' not found", capitalize(e.Kind), e.Name)
	}
	return fmt.Sprintf("%s '%s' not found in table '%s'", capitalize(e.Kind), e.Name, e.Table)
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func tableNotFound(name string) *NotFoundError {
	return &NotFoundError{Kind: "table", Name: name}
}

func rowNotFound(table, name string) *NotFoundError {
	return &NotFoundError{Kind: "row", Name: name, Table: table}
}

func columnNotFound(table, name string) *NotFoundError {
	return &NotFoundError{Kind: "column", Name: name, Table: table}
}

// InvalidArgumentError reports an out-of-range query argument.
type InvalidArgumentError struct {
	Name  string
	Value int
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %d: must not be negative", e.Name, e.Value)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
