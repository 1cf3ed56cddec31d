package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a flat, header-having tabular file loaded into memory.
type Table struct {
	Headers []string
	Rows    [][]string
}

// LoadTable reads a tabular file. CSV is the primary format; the feature
// database also ships as .xlsx in some source drops, so both are accepted
// and dispatched on extension.
func LoadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadXLSX(path)
	default:
		return loadCSV(path)
	}
}

// loadCSV reads a CSV file with a header row. A UTF-8 BOM on the first
// header cell is stripped; ragged rows are tolerated.
func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", filepath.Base(path), err)
	}
	if len(headers) > 0 {
		headers[0] = string(bytes.TrimPrefix([]byte(headers[0]), []byte{0xEF, 0xBB, 0xBF}))
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, record)
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// loadXLSX reads the first non-empty sheet of an Excel workbook.
func loadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		return &Table{Headers: rows[0], Rows: rows[1:]}, nil
	}

	return nil, fmt.Errorf("no sheet with data found in %s", filepath.Base(path))
}

// Column returns the index of the first header matching one of the given
// name variants. Source drops are inconsistent about casing and spelling
// (Uri/uri/url/URL, acoustics vs acousticness), so callers list every
// variant they accept, most preferred first.
func (t *Table) Column(variants ...string) (int, bool) {
	for _, want := range variants {
		for i, h := range t.Headers {
			if strings.TrimSpace(h) == want {
				return i, true
			}
		}
	}
	return 0, false
}

// Cell returns the trimmed value of the given column in a row, or an empty
// string when the row is too short.
func (t *Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
