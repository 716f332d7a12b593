package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXTable is the active sheet of a workbook. Rows are sheet row numbers
// and row 1 is the header.
type XLSXTable struct {
	file  *excelize.File
	sheet string
}

// OpenXLSX opens a workbook and selects its active sheet
func OpenXLSX(path string) (*XLSXTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		f.Close()
		return nil, fmt.Errorf("workbook %s has no active sheet", path)
	}

	return &XLSXTable{file: f, sheet: sheet}, nil
}

// SheetName returns the name of the active sheet
func (t *XLSXTable) SheetName() string {
	return t.sheet
}

// FirstDataRow returns 2; row 1 holds the header
func (t *XLSXTable) FirstDataRow() int {
	return 2
}

// Column returns the raw values of col from row 2 to the last used row
func (t *XLSXTable) Column(col int) ([]string, error) {
	if col < 1 {
		return nil, fmt.Errorf("invalid column %d", col)
	}

	rows, err := t.file.GetRows(t.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", t.sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	values := make([]string, len(rows)-1)
	for i, row := range rows[1:] {
		if col-1 < len(row) {
			values[i] = row[col-1]
		}
	}
	return values, nil
}

// InsertTranslationColumn inserts a column at col+1 and captions it
func (t *XLSXTable) InsertTranslationColumn(col int, sourceLang, targetLang string) (int, error) {
	newCol := col + 1
	name, err := excelize.ColumnNumberToName(newCol)
	if err != nil {
		return 0, fmt.Errorf("invalid column %d: %w", col, err)
	}

	if err := t.file.InsertCols(t.sheet, name, 1); err != nil {
		return 0, fmt.Errorf("failed to insert column %s: %w", name, err)
	}
	if err := t.SetCell(1, newCol, SheetCaption(sourceLang, targetLang)); err != nil {
		return 0, err
	}
	return newCol, nil
}

// SetCell writes a string value at (row, col)
func (t *XLSXTable) SetCell(row, col int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell (%d, %d): %w", row, col, err)
	}
	if err := t.file.SetCellStr(t.sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

// Save writes the workbook to path
func (t *XLSXTable) Save(path string) error {
	if err := t.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Close releases the workbook
func (t *XLSXTable) Close() error {
	return t.file.Close()
}
