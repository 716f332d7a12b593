package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVTable is a CSV file held in memory. Record 0 is the header and data
// rows are numbered by record index starting at 1.
type CSVTable struct {
	records [][]string
}

// OpenCSV reads a whole CSV file. A leading UTF-8 BOM is ignored and
// rows may have differing field counts.
func OpenCSV(path string) (*CSVTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv file %s has no header row", path)
	}

	return &CSVTable{records: records}, nil
}

// Records returns the table contents, header first
func (t *CSVTable) Records() [][]string {
	return t.records
}

// FirstDataRow returns 1; record 0 holds the header
func (t *CSVTable) FirstDataRow() int {
	return 1
}

// Column returns the values of col for every data record
func (t *CSVTable) Column(col int) ([]string, error) {
	if err := t.checkColumn(col); err != nil {
		return nil, err
	}

	values := make([]string, len(t.records)-1)
	for i, rec := range t.records[1:] {
		if col-1 < len(rec) {
			values[i] = rec[col-1]
		}
	}
	return values, nil
}

// InsertTranslationColumn inserts a column right after col in every
// record. The header is the source header with a translation suffix.
func (t *CSVTable) InsertTranslationColumn(col int, sourceLang, targetLang string) (int, error) {
	if err := t.checkColumn(col); err != nil {
		return 0, err
	}

	header := CSVCaption(t.records[0][col-1], sourceLang, targetLang)
	for i, rec := range t.records {
		for len(rec) < col {
			rec = append(rec, "")
		}
		rec = append(rec, "")
		copy(rec[col+1:], rec[col:])
		rec[col] = ""
		t.records[i] = rec
	}
	t.records[0][col] = header

	return col + 1, nil
}

// SetCell writes value into record row at column col
func (t *CSVTable) SetCell(row, col int, value string) error {
	if row < 0 || row >= len(t.records) {
		return fmt.Errorf("row %d out of range", row)
	}
	rec := t.records[row]
	if col < 1 || col > len(rec) {
		return fmt.Errorf("column %d out of range in row %d", col, row)
	}
	rec[col-1] = value
	return nil
}

// Save writes the table to path with a UTF-8 BOM so spreadsheet
// applications detect the encoding
func (t *CSVTable) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(t.records); err != nil {
		return fmt.Errorf("failed to write csv file: %w", err)
	}

	return f.Close()
}

// Close is a no-op; the file is closed after reading
func (t *CSVTable) Close() error {
	return nil
}

func (t *CSVTable) checkColumn(col int) error {
	if col < 1 || col > len(t.records[0]) {
		return fmt.Errorf("column %d out of range: header has %d columns", col, len(t.records[0]))
	}
	return nil
}
