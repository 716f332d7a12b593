package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions tabtrans cannot handle
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format identifies a file family
type Format string

// Supported formats
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Table is a loaded tabular file. Columns are 1-based; rows use the
// numbering reported by FirstDataRow.
type Table interface {
	// FirstDataRow is the row number of the first row after the header
	FirstDataRow() int
	// Column returns the data values of a column, header excluded
	Column(col int) ([]string, error)
	// InsertTranslationColumn adds a captioned column right after col
	// and returns its column number
	InsertTranslationColumn(col int, sourceLang, targetLang string) (int, error)
	// SetCell writes a value into the table
	SetCell(row, col int, value string) error
	// Save writes the table to path in its own format
	Save(path string) error
	// Close releases any resources held by the table
	Close() error
}

// DetectFormat maps a file extension to a Format
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		if ext == "" {
			ext = "(none)"
		}
		return "", fmt.Errorf("%w: %s, use .xlsx or .csv files", ErrUnsupportedFormat, ext)
	}
}

// Open loads the file at path with the reader matching its extension
func Open(path string) (Table, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return OpenXLSX(path)
	default:
		return OpenCSV(path)
	}
}

// SheetCaption is the header of the inserted column in a workbook
func SheetCaption(sourceLang, targetLang string) string {
	return fmt.Sprintf("Translation(%s→%s)", sourceLang, targetLang)
}

// CSVCaption is the header of the inserted column in a CSV file
func CSVCaption(original, sourceLang, targetLang string) string {
	return fmt.Sprintf("%s_translation(%s→%s)", original, sourceLang, targetLang)
}
