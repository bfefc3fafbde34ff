package table

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Read loads a table from disk, dispatching on the file extension:
// .xlsx is read through excelize, everything else as CSV.
func Read(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return ReadCSV(path)
	}
}

// ReadXLSX reads the first sheet of a spreadsheet into a Table. The
// first row is the header.
func ReadXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("%s contains no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("sheet %q of %s is empty", sheets[0], path)
	}

	t := Table{Name: tableName(path), Columns: rows[0]}
	for _, row := range rows[1:] {
		for len(row) < len(t.Columns) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row[:len(t.Columns)])
	}
	return t, nil
}
